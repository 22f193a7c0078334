package attribute

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoUndistributedPoint is matched by the error Increase returns when the
// loadout has no point left to spend.
var ErrNoUndistributedPoint = errors.New("no undistributed points")

// ProcessError is a rejected caller operation carrying a stable error code.
type ProcessError struct {
	Code        string
	Description string
	Message     string
	Parameters  []string
	cause       error
}

// Error renders the message with its parameters substituted in order.
func (e *ProcessError) Error() string {
	msg := e.Message
	for _, p := range e.Parameters {
		msg = strings.Replace(msg, "{}", p, 1)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap exposes the sentinel cause for errors.Is.
func (e *ProcessError) Unwrap() error { return e.cause }

// Loadout holds a pet's base attribute values and its unspent points.
// Derived values are always computed from the base values.
type Loadout struct {
	Undistributed int `yaml:"undistributed"`
	Strength      int `yaml:"strength"`
	Constitution  int `yaml:"constitution"`
	Agility       int `yaml:"agility"`
	Intellect     int `yaml:"intellect"`
	Willpower     int `yaml:"willpower"`
}

// Base returns the value of b; unknown attributes read as 0.
func (l Loadout) Base(b Base) int {
	switch b {
	case Strength:
		return l.Strength
	case Constitution:
		return l.Constitution
	case Agility:
		return l.Agility
	case Intellect:
		return l.Intellect
	case Willpower:
		return l.Willpower
	}
	return 0
}

// Derived returns the sum of the two base values underlying d.
//
// Postcondition: Returns 0 for an unknown d.
func (l Loadout) Derived(d Derived) int {
	a, b, ok := d.Components()
	if !ok {
		return 0
	}
	return l.Base(a) + l.Base(b)
}

// Value reads any attribute from the loadout.
func (l Loadout) Value(a Attribute) int {
	if b, ok := a.Base(); ok {
		return l.Base(b)
	}
	if d, ok := a.Derived(); ok {
		return l.Derived(d)
	}
	return 0
}

// Set overwrites the value of b.
func (l *Loadout) Set(b Base, v int) {
	switch b {
	case Strength:
		l.Strength = v
	case Constitution:
		l.Constitution = v
	case Agility:
		l.Agility = v
	case Intellect:
		l.Intellect = v
	case Willpower:
		l.Willpower = v
	}
}

// Increase spends one undistributed point on b.
//
// Postcondition: On success b is raised by 1 and Undistributed lowered by 1.
// With no point left the loadout is unchanged and a *ProcessError wrapping
// ErrNoUndistributedPoint is returned.
func (l *Loadout) Increase(b Base) error {
	if l.Undistributed <= 0 {
		return &ProcessError{
			Code:        "ERR_PET-F001",
			Description: "No undistributed points",
			Message:     "When trying to increase the {} attribute, there was no available undistributed attribute point.",
			Parameters:  []string{b.String()},
			cause:       ErrNoUndistributedPoint,
		}
	}
	if _, ok := baseNames[b]; !ok {
		return fmt.Errorf("increasing unknown base attribute %d", int(b))
	}
	l.Set(b, l.Base(b)+1)
	l.Undistributed--
	return nil
}

// Validate reports negative values.
func (l Loadout) Validate() error {
	var errs []string
	if l.Undistributed < 0 {
		errs = append(errs, "undistributed must be >= 0")
	}
	for _, b := range BaseAttributes {
		if l.Base(b) < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0, got %d", b, l.Base(b)))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("attribute loadout invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}
