package colorspace

// Wheel maps a position on a 0-254 circular domain to a color on the classic
// three-segment RGB wheel (red -> blue -> green). It is cheaper than a full
// HSV conversion and is what the RGB rainbow path renders with.
func Wheel(pos uint8) RGB {
	switch {
	case pos < 85:
		return RGB{255 - pos*3, 0, pos*3}
	case pos < 170:
		pos -= 85
		return RGB{0, pos*3, 255 - pos*3}
	default:
		pos -= 170
		return RGB{pos * 3, 255 - pos*3, 0}
	}
}

// Wheel6 maps a hue in degrees (0-359) through six hand-coded linear
// segments, hitting pure red/yellow/green/cyan/blue/magenta at the
// 60-degree boundaries.
func Wheel6(hue uint16) RGB {
	h := int(hue) % 360
	switch {
	case h < 60:
		return RGB{255, uint8(h * 255 / 60), 0}
	case h < 120:
		return RGB{uint8(255 - (h-60)*255/60), 255, 0}
	case h < 180:
		return RGB{0, 255, uint8((h - 120) * 255 / 60)}
	case h < 240:
		return RGB{0, uint8(255 - (h-180)*255/60), 255}
	case h < 300:
		return RGB{uint8((h - 240) * 255 / 60), 0, 255}
	default:
		return RGB{255, 0, uint8(255 - (h-300)*255/60)}
	}
}
