package service_test

// stubRand pins every draw to one value, making attack rolls and effect
// probability draws deterministic.
type stubRand struct {
	value int
}

func (r stubRand) Intn(n int) int {
	if r.value >= n {
		return n - 1
	}
	return r.value
}
