package main

import (
	"strconv"
	"time"
)

// parseDate reads an optional YYYY-MM-DD request date. An empty string
// means the date was not chosen.
func parseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseLimitOrDefault(limitStr string, defaultLimit int) (int, error) {
	if limitStr == "" {
		return defaultLimit, nil
	}
	return strconv.Atoi(limitStr)
}
