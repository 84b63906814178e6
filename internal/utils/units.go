package utils

import "math"

// Fixed conversion factors used at the service boundary. Profiles are
// stored metric (kg, cm); clients read and write imperial.
const (
	LbsPerKg = 2.20462
	CmPerIn  = 2.54
)

func LbsToKg(lbs float64) float64 {
	return lbs / LbsPerKg
}

func KgToLbs(kg float64) float64 {
	return kg * LbsPerKg
}

// RoundedLbs converts a stored metric weight to the integer pounds the
// client displays.
func RoundedLbs(kg float64) int {
	return int(math.Round(KgToLbs(kg)))
}

func FeetInchesToCm(feet, inches int) float64 {
	return float64(feet*12+inches) * CmPerIn
}

// CmToFeetInches converts a stored metric height back to (feet, inches),
// inches in [0, 11].
func CmToFeetInches(cm float64) (int, int) {
	totalInches := int(math.Round(cm / CmPerIn))
	return totalInches / 12, totalInches % 12
}
