package segmentation

import (
	"strings"

	"github.com/pkg/errors"
)

// Mode selects how opening and closing are merged and how the reduced plane
// is scaled back to full intensity.
type Mode int

const (
	// ModeLiteral adds opening and closing with saturation and multiplies
	// the reduced plane by 255.
	ModeLiteral Mode = iota
	// ModeLogical ORs opening and closing and clamps any non-zero value of
	// the reduced plane to 255.
	ModeLogical
)

func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "literal"
	case ModeLogical:
		return "logical"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return ModeLiteral, nil
	case "logical":
		return ModeLogical, nil
	default:
		return ModeLiteral, errors.Wrapf(ErrInvalidParameter, "unknown combine mode %q", s)
	}
}
