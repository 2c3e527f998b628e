package media

import (
	"math"
	"math/rand"
)

// RandomCPI draws placeholder metrics: ww in [0.10, 0.60) and usa in [0.50, 2.50), both
// rounded to cents. r may be nil to use the global source.
func RandomCPI(r *rand.Rand) *CPIMetrics {
	f := rand.Float64
	if r != nil {
		f = r.Float64
	}
	return &CPIMetrics{
		WW:  round2(f()*0.5 + 0.1),
		USA: round2(f()*2.0 + 0.5),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
