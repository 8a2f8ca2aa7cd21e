package weather

import "math"

// kmhPerMS converts metres per second to kilometres per hour.
const kmhPerMS = 3.6

// KmhFromMS converts a wind speed in m/s to km/h.
func KmhFromMS(speed float64) float64 {
	return speed * kmhPerMS
}

// Round rounds half up, the way browsers display whole degrees
// (16.5 -> 17, -2.5 -> -2).
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}
