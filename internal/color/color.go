// Package color assigns each process id a stable display colour.
//
// The colour is a pure function of the id: the same id maps to the same
// colour on every call, in every session, and on every surface (terminal
// or HTML). Idle and context switch segments are not processes and get
// reserved colours outside the hashed palette.
package color

import (
	"fmt"
	"unicode/utf16"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/randomizedcoder/schedviz/internal/schedule"
)

// Hashed palette parameters, tuned for a dark background.
const (
	Saturation = 0.70
	Lightness  = 0.40
)

// Reserved fills for non-process segments.
const (
	IdleHex          = "#334155"
	ContextSwitchHex = "#b45309"
)

// Short labels drawn on reserved segments.
const (
	IdleLabel          = "IDLE"
	ContextSwitchLabel = "CS"
)

// Swatch describes how one segment owner is painted.
type Swatch struct {
	// Hex is a #rrggbb colour usable by lipgloss and CSS.
	Hex string
	// CSS is the CSS colour expression (hsl() for hashed ids).
	CSS string
	// Label is the text drawn on the segment.
	Label string
	// Hue is the hashed hue in [0, 360), or -1 for reserved swatches.
	Hue int
	// Reserved is true for IDLE and context switch swatches.
	Reserved bool
}

var (
	idleSwatch = Swatch{
		Hex:      IdleHex,
		CSS:      IdleHex,
		Label:    IdleLabel,
		Hue:      -1,
		Reserved: true,
	}
	contextSwitchSwatch = Swatch{
		Hex:      ContextSwitchHex,
		CSS:      ContextSwitchHex,
		Label:    ContextSwitchLabel,
		Hue:      -1,
		Reserved: true,
	}
)

// Hash folds the UTF-16 code units of id into a 32-bit accumulator:
// acc = acc*31 + unit (mod 2^32). Code units rather than runes keep the
// result identical to the browser frontend's charCodeAt loop.
func Hash(id string) uint32 {
	var acc uint32
	for _, unit := range utf16.Encode([]rune(id)) {
		acc = acc*31 + uint32(unit)
	}
	return acc
}

// Hue returns Hash(id) mod 360.
func Hue(id string) int {
	return int(Hash(id) % 360)
}

// ForHue returns the hashed-palette swatch for a hue.
func ForHue(hue int, label string) Swatch {
	c := colorful.Hsl(float64(hue), Saturation, Lightness)
	return Swatch{
		Hex:   c.Clamped().Hex(),
		CSS:   fmt.Sprintf("hsl(%d %d%% %d%%)", hue, int(Saturation*100), int(Lightness*100)),
		Label: label,
		Hue:   hue,
	}
}

// For returns the swatch for a segment owner. Sentinel ids bypass the hash.
func For(ownerID string) Swatch {
	switch {
	case schedule.IsIdle(ownerID):
		return idleSwatch
	case schedule.IsContextSwitch(ownerID):
		return contextSwitchSwatch
	}
	return ForHue(Hue(ownerID), ownerID)
}
