package entry

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Point is the read side of an entrypoint.
//
// The returned slices alias the entrypoint's storage and must not be
// modified by the caller.
type Point interface {
	Locals() []float32
	Globals() []Global
	Measurement() float32
	Sigma() float32
}

// Global is a derivative with respect to a global parameter.
// Index is the 0-based label of the parameter.
type Global struct {
	Index uint32
	Value float32
}

// Compare orders globals by index, then by value.
func (g Global) Compare(other Global) int {
	if c := cmp.Compare(g.Index, other.Index); c != 0 {
		return c
	}
	return cmp.Compare(g.Value, other.Value)
}

// Integer is the set of integer types accepted as a global label.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is the set of floating-point types accepted as a derivative value.
type Float interface {
	~float32 | ~float64
}

// F32 narrows v to the stored precision.
func F32[F Float](v F) float32 { return float32(v) }

// Locals converts vs to the stored precision.
func Locals[F Float](vs ...F) []float32 {
	out := make([]float32, len(vs))
	for i, v := range vs {
		out[i] = float32(v)
	}
	return out
}

// Pair builds a Global from any integer label and floating-point value.
func Pair[I Integer, F Float](index I, value F) Global {
	return Global{Index: uint32(index), Value: float32(value)}
}

// Equal reports whether a and b carry the same derivatives, measurement and
// sigma. The comparison is component-wise, so a Fixed and a Dynamic holding
// the same values are equal.
func Equal(a, b Point) bool {
	return slices.Equal(a.Locals(), b.Locals()) &&
		slices.Equal(a.Globals(), b.Globals()) &&
		a.Measurement() == b.Measurement() &&
		a.Sigma() == b.Sigma()
}

// Compare orders a and b lexicographically over (locals, globals,
// measurement, sigma).
func Compare(a, b Point) int {
	if c := slices.Compare(a.Locals(), b.Locals()); c != 0 {
		return c
	}
	if c := slices.CompareFunc(a.Globals(), b.Globals(), Global.Compare); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Measurement(), b.Measurement()); c != 0 {
		return c
	}
	return cmp.Compare(a.Sigma(), b.Sigma())
}

// Format renders p as
//
//	local derivatives: [1, 2], global derivatives: [(1, 1)], measurement: 1, sigma: 1
func Format(p Point) string {
	var sb strings.Builder
	sb.WriteString("local derivatives: [")
	for i, v := range p.Locals() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatFloat(v))
	}
	sb.WriteString("], global derivatives: [")
	for i, g := range p.Globals() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		sb.WriteString(strconv.FormatUint(uint64(g.Index), 10))
		sb.WriteString(", ")
		sb.WriteString(formatFloat(g.Value))
		sb.WriteByte(')')
	}
	sb.WriteString("], measurement: ")
	sb.WriteString(formatFloat(p.Measurement()))
	sb.WriteString(", sigma: ")
	sb.WriteString(formatFloat(p.Sigma()))
	return sb.String()
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
