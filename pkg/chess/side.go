package chess

import (
	"fmt"
	"strings"
)

// Side identifies one of the two clocks
type Side int

// The two sides of the clock
const (
	Left Side = iota
	Right
)

// Sides lists both sides in index order
var Sides = [2]Side{Left, Right}

// Opp returns the opposite side
func (s Side) Opp() Side {
	if s == Left {
		return Right
	}

	return Left
}

func (s Side) String() string {
	if s == Left {
		return "left"
	}

	return "right"
}

// ParseSide converts "left" or "right" into a Side
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}

	return Left, fmt.Errorf("unknown side %q: %w", v, ErrInvalidArgument)
}
