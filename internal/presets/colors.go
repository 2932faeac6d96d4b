package presets

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/cavemosaic/internal/mosaic"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to an opaque mosaic.Color.
func ParseHexColor(hex string) (mosaic.Color, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}

	if len(hex) != 7 {
		return mosaic.Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return mosaic.Color{}, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return mosaic.FromColorful(c, 1), nil
}

// MustParseHexColor converts a hex color string to mosaic.Color, panicking on error.
func MustParseHexColor(hex string) mosaic.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return color
}
