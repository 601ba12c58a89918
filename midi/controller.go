package midi

import (
	"errors"
	"strings"
	"unicode"

	"go-surface/surface"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerSurface
	ControllerExtender
)

func (t ControllerType) String() string {
	switch t {
	case ControllerSurface:
		return "surface"
	case ControllerExtender:
		return "extender"
	}
	return "unknown"
}

// ErrNoOutput is returned when sending to a controller without an output port.
var ErrNoOutput = errors.New("controller has no output port")

// ErrNoSurface is returned when no port looks like a main unit.
var ErrNoSurface = errors.New("no surface found")

// Controller is the interface for a connected console unit
type Controller interface {
	ID() string
	Type() ControllerType

	// Input events from the console, already decoded
	Events() <-chan surface.Event

	// Output to the console
	Send(msgs ...gomidi.Message) error

	// Lifecycle
	Close() error
}

// Matcher decides what kind of controller sits behind a port name.
type Matcher func(portName string) ControllerType

var surfaceNames = []string{"ddx3216", "ddx 3216", "mackie", "mcu", "x-touch"}

// Classify recognises console ports by name. Ports with a word like "xt"
// or "extender" are extender units.
func Classify(portName string) ControllerType {
	name := strings.ToLower(portName)
	known := false
	for _, s := range surfaceNames {
		if strings.Contains(name, s) {
			known = true
			break
		}
	}
	if !known {
		return ControllerUnknown
	}
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		switch w {
		case "xt", "ext", "extender":
			return ControllerExtender
		}
	}
	return ControllerSurface
}
