// Package domain holds the core value types for the locator bounded context.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// UnknownAddress is the sentinel display name used when reverse
// geocoding fails. Resolution is best-effort: a valid coordinate pair
// is still recorded under this name.
const UnknownAddress = "Unknown location"

// searchAccuracyLabel is the literal stored for search-derived locations.
const searchAccuracyLabel = "From search"

// Accuracy describes how a location was resolved: the literal
// "From search" for search-derived entries, or a positive number of
// meters for device-derived fixes. It serializes to a JSON string or
// number accordingly and accepts either form when decoding.
type Accuracy struct {
	fromSearch bool
	meters     float64
}

// SearchAccuracy returns the accuracy marker for search-derived locations.
func SearchAccuracy() Accuracy {
	return Accuracy{fromSearch: true}
}

// DeviceAccuracy returns an accuracy of the given number of meters.
func DeviceAccuracy(meters float64) Accuracy {
	return Accuracy{meters: meters}
}

// FromSearch reports whether the location came from a search selection.
func (a Accuracy) FromSearch() bool { return a.fromSearch }

// Meters returns the device accuracy radius; zero for search-derived entries.
func (a Accuracy) Meters() float64 { return a.meters }

// String renders the accuracy the way the detail panel displays it.
func (a Accuracy) String() string {
	if a.fromSearch {
		return searchAccuracyLabel
	}
	return strconv.FormatFloat(a.meters, 'f', -1, 64)
}

// MarshalJSON emits the literal string for search entries and a bare
// number for device entries.
func (a Accuracy) MarshalJSON() ([]byte, error) {
	if a.fromSearch {
		return json.Marshal(searchAccuracyLabel)
	}
	return json.Marshal(a.meters)
}

// UnmarshalJSON accepts both serialized forms.
func (a *Accuracy) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if asString != searchAccuracyLabel {
			return fmt.Errorf("unknown accuracy label %q", asString)
		}
		*a = Accuracy{fromSearch: true}
		return nil
	}

	var meters float64
	if err := json.Unmarshal(data, &meters); err != nil {
		return fmt.Errorf("accuracy must be %q or a number: %w", searchAccuracyLabel, err)
	}
	*a = Accuracy{meters: meters}
	return nil
}

// Location is a resolved point of interest. Timestamp is set at
// creation and never mutated afterward.
type Location struct {
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  Accuracy  `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// FromSearch builds a search-derived location stamped with the current time.
func FromSearch(name string, lat, lng float64) (Location, error) {
	if err := validate(name, lat, lng); err != nil {
		return Location{}, err
	}
	return Location{
		Name:      name,
		Lat:       lat,
		Lng:       lng,
		Accuracy:  SearchAccuracy(),
		Timestamp: time.Now().UTC(),
	}, nil
}

// FromDevice builds a device-derived location stamped with the current time.
func FromDevice(name string, lat, lng, accuracyMeters float64) (Location, error) {
	if err := validate(name, lat, lng); err != nil {
		return Location{}, err
	}
	if accuracyMeters <= 0 {
		return Location{}, fmt.Errorf("device accuracy must be positive, got %v", accuracyMeters)
	}
	return Location{
		Name:      name,
		Lat:       lat,
		Lng:       lng,
		Accuracy:  DeviceAccuracy(accuracyMeters),
		Timestamp: time.Now().UTC(),
	}, nil
}

// Coordinates renders the coordinate pair the way the clipboard and
// map viewer expect it: "<lat>, <lng>".
func (l Location) Coordinates() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

func validate(name string, lat, lng float64) error {
	if name == "" {
		return fmt.Errorf("location name must not be empty")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lng)
	}
	return nil
}
