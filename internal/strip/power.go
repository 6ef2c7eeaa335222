package strip

import "math"

// capWhite scales a pixel down so r+g+b stays under whiteCap*3*255,
// preserving hue. Keeps near-white frames inside the supply budget.
func capWhite(r, g, b uint8, whiteCap float64) (uint8, uint8, uint8) {
	sum := float64(r) + float64(g) + float64(b)
	limit := whiteCap * 3.0 * 255.0
	if sum <= limit || sum == 0 {
		return r, g, b
	}
	scale := limit / sum
	return uint8(math.Round(float64(r) * scale)),
		uint8(math.Round(float64(g) * scale)),
		uint8(math.Round(float64(b) * scale))
}

// EstimateCurrent returns the rough supply draw in amps for an RGB frame,
// assuming 20mA per channel at full scale.
func EstimateCurrent(rgb []byte) float64 {
	var sum float64
	for i := 0; i+2 < len(rgb); i += 3 {
		sum += float64(rgb[i]) + float64(rgb[i+1]) + float64(rgb[i+2])
	}
	return sum / 255.0 * 0.020
}
