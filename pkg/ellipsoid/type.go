// Package ellipsoid fits constrained quadric surfaces to 3D point clouds and
// reduces the fitted algebraic form to center, principal axes and radii.
package ellipsoid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned for an ellipsoid type outside the known set
var ErrUnknownType = errors.New("unknown ellipsoid type")

// Type selects the symmetry constraints assumed by a fit
type Type int

const (
	// Arbitrary allows any center, orientation and radii
	Arbitrary Type = iota
	// XYEqual forces equal radii along X and Y
	XYEqual
	// XZEqual forces equal radii along X and Z
	XZEqual
	// Sphere forces three equal radii
	Sphere
	// Aligned forces the principal axes onto the coordinate axes
	Aligned
	// AlignedXYEqual combines Aligned and XYEqual
	AlignedXYEqual
	// AlignedXZEqual combines Aligned and XZEqual
	AlignedXZEqual
)

// Types lists every supported type in declaration order
var Types = []Type{Arbitrary, XYEqual, XZEqual, Sphere, Aligned, AlignedXYEqual, AlignedXZEqual}

var typeNames = [...]string{
	Arbitrary:      "arbitrary",
	XYEqual:        "xy-equal",
	XZEqual:        "xz-equal",
	Sphere:         "sphere",
	Aligned:        "aligned",
	AlignedXYEqual: "aligned-xy-equal",
	AlignedXZEqual: "aligned-xz-equal",
}

// freeParams is the length of the reduced coefficient vector per type
var freeParams = [...]int{
	Arbitrary:      9,
	XYEqual:        8,
	XZEqual:        8,
	Sphere:         4,
	Aligned:        6,
	AlignedXYEqual: 5,
	AlignedXZEqual: 5,
}

// Valid reports whether t is one of the declared types
func (t Type) Valid() bool {
	return t >= Arbitrary && t <= AlignedXZEqual
}

// String returns the kebab-case name of the type
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// FreeParams returns the number of unknowns solved for by a fit of this type.
// It is also the minimum number of points the fit accepts.
func (t Type) FreeParams() int {
	if !t.Valid() {
		return 0
	}
	return freeParams[t]
}

// HasCrossTerms reports whether the fit solves for the xy, xz and yz terms
func (t Type) HasCrossTerms() bool {
	return t == Arbitrary || t == XYEqual || t == XZEqual
}

// ParseType resolves a type name. Matching ignores case, and underscores or
// spaces are accepted in place of dashes, so "XY_Equal" parses as XYEqual.
func ParseType(name string) (Type, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)

	for _, t := range Types {
		if typeNames[t] == normalized || strings.ReplaceAll(typeNames[t], "-", "") == normalized {
			return t, nil
		}
	}
	return Arbitrary, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Set implements pflag.Value so a Type can be bound directly to a flag
func (t *Type) Set(name string) error {
	parsed, err := ParseType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Type implements pflag.Value
func (t *Type) Type() string {
	return "type"
}
