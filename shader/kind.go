package shader

import (
	"fmt"
	"strings"
)

// Kind selects the material template an expression set is compiled into.
type Kind uint8

const (
	Point Kind = iota
	Line
)

func (k Kind) String() string {
	switch k {
	case Point:
		return "point"
	case Line:
		return "line"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ColorType selects how the four channels are interpreted.
type ColorType int32

const (
	RGB ColorType = iota
	HSV
	Solid
)

func (c ColorType) String() string {
	switch c {
	case RGB:
		return "rgb"
	case HSV:
		return "hsv"
	case Solid:
		return "solid"
	default:
		return fmt.Sprintf("ColorType(%d)", c)
	}
}

// Valid reports whether c is one of the known color types.
func (c ColorType) Valid() bool {
	return c >= RGB && c <= Solid
}

// ParseColorType parses the lower-case name of a color type.
func ParseColorType(s string) (ColorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgb":
		return RGB, nil
	case "hsv":
		return HSV, nil
	case "solid":
		return Solid, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidColorType, s)
}

// Channel names one of the four color expressions.
type Channel uint8

const (
	ChannelUnknown Channel = iota
	C1
	C2
	C3
	Alpha
)

// Channels lists the real channels in composition order.
var Channels = [...]Channel{C1, C2, C3, Alpha}

func (c Channel) String() string {
	switch c {
	case C1:
		return "c1"
	case C2:
		return "c2"
	case C3:
		return "c3"
	case Alpha:
		return "alpha"
	default:
		return "unknown"
	}
}

func (c Channel) placeholder() string {
	switch c {
	case C1:
		return "{{C1}}"
	case C2:
		return "{{C2}}"
	case C3:
		return "{{C3}}"
	case Alpha:
		return "{{ALPHA}}"
	}
	return ""
}

func (c Channel) probe() string {
	return "channel_" + c.String()
}

// Expressions holds the four channel expressions of one material.
type Expressions struct {
	C1    string `json:"c1"`
	C2    string `json:"c2"`
	C3    string `json:"c3"`
	Alpha string `json:"alpha"`
}

// Get returns the expression of channel c.
func (e Expressions) Get(c Channel) string {
	switch c {
	case C1:
		return e.C1
	case C2:
		return e.C2
	case C3:
		return e.C3
	case Alpha:
		return e.Alpha
	}
	return ""
}

// With returns a copy of e with channel c replaced.
func (e Expressions) With(c Channel, expr string) Expressions {
	switch c {
	case C1:
		e.C1 = expr
	case C2:
		e.C2 = expr
	case C3:
		e.C3 = expr
	case Alpha:
		e.Alpha = expr
	}
	return e
}

// DefaultLine returns the default expressions of the line material.
func DefaultLine() Expressions {
	return Expressions{C1: "1.0", C2: "1.0", C3: "1.0", Alpha: "0.2"}
}

// DefaultPoint returns the default expressions of the point material.
func DefaultPoint() Expressions {
	return Expressions{C1: "-.05*(x+y)-10.", C2: "1.0", C3: "1.0", Alpha: "1.0"}
}
