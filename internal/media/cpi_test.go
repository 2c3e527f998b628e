package media

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomCPIRange(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		m := RandomCPI(r)
		if m.WW < 0.1 || m.WW > 0.6 || m.USA < 0.5 || m.USA > 2.5 {
			t.Fatalf("RandomCPI() = %+v out of range", m)
		}
		if math.Abs(m.WW*100-math.Round(m.WW*100)) > 1e-6 {
			t.Fatalf("WW %v not rounded to cents", m.WW)
		}
	}
}
