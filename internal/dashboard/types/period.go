package types

import (
	"fmt"
	"strings"
)

type Granularity int

const (
	Day Granularity = iota
	FiveDay
	Week
	Month
	Quarter
	Year
)

var Granularities = []Granularity{Day, FiveDay, Week, Month, Quarter, Year}

var granularityCodes = map[Granularity]string{
	Day:     "D",
	FiveDay: "5D",
	Week:    "W",
	Month:   "M",
	Quarter: "Q",
	Year:    "Y",
}

var GranularityLabels = map[Granularity]string{
	Day:     "Día",
	FiveDay: "5 Días",
	Week:    "Semana",
	Month:   "Mes",
	Quarter: "Trimestre",
	Year:    "Año",
}

func (g Granularity) Code() string {
	return granularityCodes[g]
}

func (g Granularity) String() string {
	return GranularityLabels[g]
}

// ParseGranularity accepts a code ("D", "5D", ...) or a label ("Mes").
// An empty string means Day.
func ParseGranularity(s string) (Granularity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Day, nil
	}
	for _, g := range Granularities {
		if strings.EqualFold(s, granularityCodes[g]) || strings.EqualFold(s, GranularityLabels[g]) {
			return g, nil
		}
	}
	return Day, fmt.Errorf("unknown period %q", s)
}
