package services

import (
	"math"
	"strconv"
	"strings"
)

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// formatKcal prints a calorie figure the way users see it in explanations:
// whole numbers keep one decimal ("150.0"), others print as-is ("437.5").
func formatKcal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
