package entry

import "fmt"

// Fixed is an entrypoint whose number of locals and globals is set at
// construction. The zero value has no derivatives at all; use NewFixed.
type Fixed struct {
	locals      []float32
	globals     []Global
	measurement float32
	sigma       float32
}

var _ Point = (*Fixed)(nil)

// NewFixed returns a zeroed entrypoint with nLocals local and nGlobals
// global derivatives. It panics if either count is negative.
func NewFixed(nLocals, nGlobals int) *Fixed {
	return &Fixed{
		locals:  make([]float32, nLocals),
		globals: make([]Global, nGlobals),
	}
}

// NumLocals returns the configured number of local derivatives.
func (f *Fixed) NumLocals() int { return len(f.locals) }

// NumGlobals returns the configured number of global derivatives.
func (f *Fixed) NumGlobals() int { return len(f.globals) }

func (f *Fixed) Locals() []float32    { return f.locals }
func (f *Fixed) Globals() []Global    { return f.globals }
func (f *Fixed) Measurement() float32 { return f.measurement }
func (f *Fixed) Sigma() float32       { return f.sigma }

// Reset zeroes every derivative, the measurement and sigma. The sizes are kept.
func (f *Fixed) Reset() *Fixed {
	clear(f.locals)
	clear(f.globals)
	f.measurement = 0
	f.sigma = 0
	return f
}

// SetLocals replaces all local derivatives. It panics unless exactly
// NumLocals values are given.
func (f *Fixed) SetLocals(values ...float32) *Fixed {
	mustLen("locals", len(values), len(f.locals))
	copy(f.locals, values)
	return f
}

// SetLocalsFunc sets local i to fn(i) for every local.
func (f *Fixed) SetLocalsFunc(fn func(i int) float32) *Fixed {
	for i := range f.locals {
		f.locals[i] = fn(i)
	}
	return f
}

// SetGlobals replaces all global derivatives. It panics unless exactly
// NumGlobals pairs are given.
func (f *Fixed) SetGlobals(pairs ...Global) *Fixed {
	mustLen("globals", len(pairs), len(f.globals))
	copy(f.globals, pairs)
	return f
}

// SetGlobalsFunc sets global i to fn(i) for every global.
func (f *Fixed) SetGlobalsFunc(fn func(i int) Global) *Fixed {
	for i := range f.globals {
		f.globals[i] = fn(i)
	}
	return f
}

// SetGlobalsFuncs sets the label of global i to index(i) and its value to
// value(i). Either generator may be nil to leave that half untouched.
func (f *Fixed) SetGlobalsFuncs(index func(i int) uint32, value func(i int) float32) *Fixed {
	for i := range f.globals {
		if index != nil {
			f.globals[i].Index = index(i)
		}
		if value != nil {
			f.globals[i].Value = value(i)
		}
	}
	return f
}

func (f *Fixed) SetMeasurement(v float32) *Fixed {
	f.measurement = v
	return f
}

func (f *Fixed) SetSigma(v float32) *Fixed {
	f.sigma = v
	return f
}

// Clone returns a deep copy of f.
func (f *Fixed) Clone() *Fixed {
	return &Fixed{
		locals:      append([]float32(nil), f.locals...),
		globals:     append([]Global(nil), f.globals...),
		measurement: f.measurement,
		sigma:       f.sigma,
	}
}

// Equal reports whether f and other have the same sizes and values.
func (f *Fixed) Equal(other *Fixed) bool { return Equal(f, other) }

// Compare orders f and other lexicographically over (locals, globals,
// measurement, sigma).
func (f *Fixed) Compare(other *Fixed) int { return Compare(f, other) }

func (f *Fixed) String() string { return Format(f) }

func mustLen(field string, got, want int) {
	if got != want {
		panic(fmt.Sprintf("entry: %s: got %d values, fixed size is %d", field, got, want))
	}
}
