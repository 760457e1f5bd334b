package allocator

import (
	"math"
	"strconv"
	"strings"
)

// ResolvePriority returns the priority score of a student.
//
// The average for the year just completed is the merit signal:
//   - Year II students compete with their year I average
//   - Year III students compete with their year II average
//   - Year I and unspecified students use the general average, then the fallback average
//
// Missing averages resolve to 0.
func ResolvePriority(year YearOfStudy, rec AcademicRecord) float64 {
	switch year {
	case YearTwo:
		return scoreOf(rec.YearOneAverage)
	case YearThree:
		return scoreOf(rec.YearTwoAverage)
	default:
		if rec.GeneralAverage != nil {
			return scoreOf(rec.GeneralAverage)
		}
		return scoreOf(rec.FallbackAverage)
	}
}

func scoreOf(avg *float64) float64 {
	if avg == nil || !validAverage(*avg) {
		return 0
	}
	return *avg
}

func validAverage(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// ParseAverage parses a raw average such as "9.50" or "9,50".
// Returns nil for blank, non-numeric, non-finite or negative input.
func ParseAverage(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	// Faculty exports use a decimal comma
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !validAverage(v) {
		return nil
	}
	return &v
}

// ParseYearOfStudy accepts roman (I, II, III) or arabic (1, 2, 3) year codes
func ParseYearOfStudy(raw string) YearOfStudy {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "I", "1":
		return YearOne
	case "II", "2":
		return YearTwo
	case "III", "3":
		return YearThree
	default:
		return YearUnspecified
	}
}
