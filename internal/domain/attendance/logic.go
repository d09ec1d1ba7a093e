package attendance

import (
	"math"
	"time"
)

// ComputeHours derives totalHours and overtime from the two timestamps.
// Both stay 0 until check-in and check-out are both present.
func ComputeHours(checkIn, checkOut *time.Time, workdayHours float64) (totalHours, overtime float64) {
	if checkIn == nil || checkOut == nil {
		return 0, 0
	}
	if checkOut.Before(*checkIn) {
		return 0, 0
	}
	totalHours = round2(checkOut.Sub(*checkIn).Hours())
	overtime = round2(math.Max(0, totalHours-workdayHours))
	return totalHours, overtime
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
