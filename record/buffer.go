package record

// pointBuffer holds the buffer points of the current entry as two parallel
// slices. len(indices) == len(values) at all times.
type pointBuffer struct {
	indices []uint32
	values  []float32
}

func (b *pointBuffer) len() int { return len(b.indices) }

func (b *pointBuffer) push(index uint32, value float32) {
	b.indices = append(b.indices, index)
	b.values = append(b.values, value)
}

// pushNonZero appends the point unless value is exactly zero.
func (b *pointBuffer) pushNonZero(index uint32, value float32) bool {
	if value == 0 {
		return false
	}
	b.push(index, value)
	return true
}

// truncate shrinks the buffer to n points.
func (b *pointBuffer) truncate(n int) {
	b.indices = b.indices[:n]
	b.values = b.values[:n]
}

// reserve makes room for n points without reallocating.
func (b *pointBuffer) reserve(n int) {
	if cap(b.indices) < n {
		indices := make([]uint32, len(b.indices), n)
		copy(indices, b.indices)
		b.indices = indices
	}
	if cap(b.values) < n {
		values := make([]float32, len(b.values), n)
		copy(values, b.values)
		b.values = values
	}
}

// reset leaves only the (0, 0) sentinel point.
func (b *pointBuffer) reset() {
	b.truncate(0)
	b.push(0, 0)
}
