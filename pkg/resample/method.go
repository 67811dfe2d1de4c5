package resample

import (
	"fmt"
	"strings"
)

// Method tags one of the supported interpolation algorithms.
type Method int

const (
	MethodUnknown Method = iota
	Bicubic
	Lanczos
	EdgeDirected
)

// MethodSpec describes a method for help text and argument parsing.
type MethodSpec struct {
	Method      Method
	Name        string
	Aliases     []string
	Description string
	// Separable reports whether weights are a product of two 1D kernels.
	Separable bool
	// Support is the number of source samples read per axis, or 0 when it
	// depends on a parameter.
	Support int
}

// Methods is the registry of supported methods, in menu order.
var Methods = []MethodSpec{
	{
		Method:      Bicubic,
		Name:        "bicubic",
		Aliases:     []string{"cubic", "catmull-rom"},
		Description: "Catmull-Rom cubic convolution over a 4x4 neighbourhood (edge-to-edge mapping)",
		Separable:   true,
		Support:     4,
	},
	{
		Method:      Lanczos,
		Name:        "lanczos",
		Aliases:     []string{"sinc"},
		Description: "Windowed-sinc convolution over a 2a x 2a neighbourhood (pixel-centre mapping)",
		Separable:   true,
		Support:     0,
	},
	{
		Method:      EdgeDirected,
		Name:        "edi",
		Aliases:     []string{"edge-directed", "edge"},
		Description: "Gradient-steered bilinear interpolation; uniform scale taken from the x axis",
		Separable:   false,
		Support:     2,
	},
}

// String returns the registry name, or "Method(n)" for unknown tags.
func (m Method) String() string {
	if spec, ok := m.Spec(); ok {
		return spec.Name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Spec looks m up in Methods.
func (m Method) Spec() (MethodSpec, bool) {
	for _, spec := range Methods {
		if spec.Method == m {
			return spec, true
		}
	}
	return MethodSpec{}, false
}

// ParseMethod maps a name or alias (case-insensitive) to a Method.
func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, spec := range Methods {
		if spec.Name == name {
			return spec.Method, nil
		}
		for _, alias := range spec.Aliases {
			if alias == name {
				return spec.Method, nil
			}
		}
	}
	return MethodUnknown, fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if _, ok := m.Spec(); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMethod, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
