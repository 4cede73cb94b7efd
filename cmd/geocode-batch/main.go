// geocode-batch reverse-geocodes coordinate pairs read from stdin, one
// "lat,lng" pair per line, and prints one JSON location per line.
// Lookups that fail resolve to the "Unknown location" sentinel, so the
// output always has one line per valid input pair.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"locator_backend/internal/geocode"
	"locator_backend/internal/locator/domain"
	"locator_backend/platform/config"
	"locator_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting geocode batch")

	ctx := context.Background()
	client := geocode.New(cfg.MapsAPIKey, log)

	scanner := bufio.NewScanner(os.Stdin)
	out := json.NewEncoder(os.Stdout)

	lineNo := 0
	resolved := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lat, lng, err := parsePair(line)
		if err != nil {
			log.Error("skipping invalid pair", "line", lineNo, "error", err)
			continue
		}

		name := client.ReverseGeocode(ctx, lat, lng)
		loc, err := domain.FromDevice(name, lat, lng, 1)
		if err != nil {
			log.Error("skipping out-of-range pair", "line", lineNo, "error", err)
			continue
		}

		if err := out.Encode(loc); err != nil {
			log.Error("failed to write result", "line", lineNo, "error", err)
			return
		}

		resolved++
		time.Sleep(100 * time.Millisecond)
	}

	if err := scanner.Err(); err != nil {
		log.Error("failed to read input", "error", err)
		os.Exit(1)
	}

	log.Info("geocode batch complete", "lines", lineNo, "resolved", resolved)
}

func parsePair(line string) (float64, float64, error) {
	parts := strings.SplitN(line, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"lat,lng\", got %q", line)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", parts[1])
	}

	return lat, lng, nil
}
