package demo

import (
	"regexp"
	"strings"
)

// Accepted CSS color formats: a fixed set of named colors, hex in the three
// common widths, and the rgb/rgba/hsl/hsla functional forms. Anything else is
// rejected so authored themes cannot smuggle arbitrary CSS into the document.
var (
	hexColorPattern  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbColorPattern  = regexp.MustCompile(`^rgb\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*\)$`)
	rgbaColorPattern = regexp.MustCompile(`^rgba\(\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*\d{1,3}\s*,\s*(?:0|1|0?\.\d+)\s*\)$`)
	hslColorPattern  = regexp.MustCompile(`^hsl\(\s*\d{1,3}\s*,\s*\d{1,3}%\s*,\s*\d{1,3}%\s*\)$`)
	hslaColorPattern = regexp.MustCompile(`^hsla\(\s*\d{1,3}\s*,\s*\d{1,3}%\s*,\s*\d{1,3}%\s*,\s*(?:0|1|0?\.\d+)\s*\)$`)
)

var namedColors = map[string]struct{}{
	"black": {}, "white": {}, "gray": {}, "grey": {}, "silver": {},
	"red": {}, "maroon": {}, "orange": {}, "gold": {}, "yellow": {},
	"olive": {}, "lime": {}, "green": {}, "teal": {}, "cyan": {},
	"aqua": {}, "blue": {}, "navy": {}, "indigo": {}, "purple": {},
	"violet": {}, "fuchsia": {}, "magenta": {}, "pink": {}, "brown": {},
	"coral": {}, "salmon": {}, "khaki": {}, "ivory": {}, "beige": {},
	"transparent": {},
}

// ValidCSSColor reports whether v is on the allow-list of color formats.
func ValidCSSColor(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if _, ok := namedColors[strings.ToLower(v)]; ok {
		return true
	}
	return hexColorPattern.MatchString(v) ||
		rgbColorPattern.MatchString(v) ||
		rgbaColorPattern.MatchString(v) ||
		hslColorPattern.MatchString(v) ||
		hslaColorPattern.MatchString(v)
}
