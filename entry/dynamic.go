package entry

// Dynamic is an entrypoint whose derivative lists grow on demand.
// The zero value is an empty entrypoint ready to use.
type Dynamic struct {
	locals      []float32
	globals     []Global
	measurement float32
	sigma       float32
}

var _ Point = (*Dynamic)(nil)

// NewDynamic returns an empty entrypoint with room for nLocals locals and
// nGlobals globals before reallocating.
func NewDynamic(nLocals, nGlobals int) *Dynamic {
	return &Dynamic{
		locals:  make([]float32, 0, nLocals),
		globals: make([]Global, 0, nGlobals),
	}
}

func (d *Dynamic) Locals() []float32    { return d.locals }
func (d *Dynamic) Globals() []Global    { return d.globals }
func (d *Dynamic) Measurement() float32 { return d.measurement }
func (d *Dynamic) Sigma() float32       { return d.sigma }

// Reset drops every derivative and zeroes the measurement and sigma.
// Allocated capacity is kept.
func (d *Dynamic) Reset() *Dynamic {
	d.locals = d.locals[:0]
	d.globals = d.globals[:0]
	d.measurement = 0
	d.sigma = 0
	return d
}

// AddLocal appends one local derivative.
func (d *Dynamic) AddLocal(v float32) *Dynamic {
	d.locals = append(d.locals, v)
	return d
}

// AddGlobal appends one global derivative with a 0-based label.
func (d *Dynamic) AddGlobal(index uint32, v float32) *Dynamic {
	d.globals = append(d.globals, Global{Index: index, Value: v})
	return d
}

// SetLocals replaces the local derivatives with values.
func (d *Dynamic) SetLocals(values ...float32) *Dynamic {
	d.locals = append(d.locals[:0], values...)
	return d
}

// SetLocalsFunc replaces the local derivatives with fn(0) .. fn(n-1).
func (d *Dynamic) SetLocalsFunc(n int, fn func(i int) float32) *Dynamic {
	d.locals = d.locals[:0]
	for i := range n {
		d.locals = append(d.locals, fn(i))
	}
	return d
}

// SetGlobals replaces the global derivatives with pairs.
func (d *Dynamic) SetGlobals(pairs ...Global) *Dynamic {
	d.globals = append(d.globals[:0], pairs...)
	return d
}

// SetGlobalsFunc replaces the global derivatives with fn(0) .. fn(n-1).
func (d *Dynamic) SetGlobalsFunc(n int, fn func(i int) Global) *Dynamic {
	d.globals = d.globals[:0]
	for i := range n {
		d.globals = append(d.globals, fn(i))
	}
	return d
}

// SetGlobalsFuncs replaces the global derivatives with n pairs whose labels
// come from index and values from value.
func (d *Dynamic) SetGlobalsFuncs(n int, index func(i int) uint32, value func(i int) float32) *Dynamic {
	d.globals = d.globals[:0]
	for i := range n {
		d.globals = append(d.globals, Global{Index: index(i), Value: value(i)})
	}
	return d
}

func (d *Dynamic) SetMeasurement(v float32) *Dynamic {
	d.measurement = v
	return d
}

func (d *Dynamic) SetSigma(v float32) *Dynamic {
	d.sigma = v
	return d
}

// Clone returns a deep copy of d.
func (d *Dynamic) Clone() *Dynamic {
	return &Dynamic{
		locals:      append([]float32(nil), d.locals...),
		globals:     append([]Global(nil), d.globals...),
		measurement: d.measurement,
		sigma:       d.sigma,
	}
}

// Equal reports whether d and other hold the same values.
func (d *Dynamic) Equal(other *Dynamic) bool { return Equal(d, other) }

func (d *Dynamic) String() string { return Format(d) }
