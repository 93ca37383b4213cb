package shape

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// PastelColor returns a random light, saturated color as #rrggbb.
func PastelColor() string {
	return pastel(rand.Float64(), rand.Float64(), rand.Float64())
}

// pastel maps three unit values onto the pastel band of the HSL space.
func pastel(hue, sat, light float64) string {
	h := hue * 360
	s := 0.7 + 0.25*sat
	l := 0.75 + 0.15*light
	return colorful.Hsl(h, s, l).Clamped().Hex()
}
