package block

// Pool keeps released handlers per block type for reuse within one Parser.
// It is not safe for concurrent use.
type Pool struct {
	free map[Type][]Handler
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{free: make(map[Type][]Handler)}
}

// Acquire returns a reset handler for trait, constructing one when none is free.
func (p *Pool) Acquire(trait *Trait) Handler {
	var h Handler
	if free := p.free[trait.Type]; len(free) > 0 {
		h = free[len(free)-1]
		p.free[trait.Type] = free[:len(free)-1]
	} else {
		h = trait.New()
	}
	h.Reset()
	return h
}

// Release returns h to the pool.
func (p *Pool) Release(t Type, h Handler) {
	p.free[t] = append(p.free[t], h)
}

// Idle returns the number of free handlers of type t.
func (p *Pool) Idle(t Type) int {
	return len(p.free[t])
}
