package docx

import "strconv"

// RGB is a resolved run foreground color.
type RGB struct {
	R, G, B uint8
}

// IsPlaceholderRed reports whether the color reads as the template's
// placeholder red. The thresholds tolerate the shades Word produces when a
// theme tints the red slightly.
func (c RGB) IsPlaceholderRed() bool {
	r, g, b := int(c.R), int(c.G), int(c.B)
	return r > 150 && g < 100 && b < 100 && r-g > 30 && r-b > 30
}

// parseHexColor parses a 6-digit OOXML hex color value. Word's symbolic
// value "auto" and malformed values resolve to nothing.
func parseHexColor(s string) (RGB, bool) {
	if len(s) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}
