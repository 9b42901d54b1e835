package models

import "math"

// Round2: para alanlarını her yazımda 2 ondalık basamağa sabitler.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
