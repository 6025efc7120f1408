package rtlsim

// A Model is a compiled design: the dependency graph over elementary
// bit ranges, the fan-out index and the static evaluation order. A
// Model is immutable and holds no simulation state; it may be shared
// read-only by any number of concurrently running instances.
type Model struct {
	name    string
	signals []*Signal
	byName  map[string]*Signal
	blocks  []*compiledBlock
	order   []int // block ids in topological order
	pos     []int // topological position per block id
	fanout  [][]watcher
	driven  []uint64 // per signal: bits written by a block or register
	regs    []compiledReg
	seqs    []seqDecl
}

// Name returns the design name the model was compiled from.
func (m *Model) Name() string { return m.name }

// Signal looks up a signal by name. It returns nil if the model has no
// signal with that name.
func (m *Model) Signal(name string) *Signal { return m.byName[name] }

// Signals returns the model's signals in declaration order. The
// returned slice must not be modified.
func (m *Model) Signals() []*Signal { return m.signals }

// NumBlocks returns the number of elementary evaluation units in the
// dependency graph, declared combinational blocks and lowered
// connections included.
func (m *Model) NumBlocks() int { return len(m.blocks) }

// NewInstance allocates fresh storage for one simulation run of the
// model. Every block is initially pending, so the first settling pass
// seeds constants and default values.
func (m *Model) NewInstance() *Instance {
	in := &Instance{
		m:       m,
		values:  make([]uint64, len(m.signals)),
		known:   make([]uint64, len(m.signals)),
		shadows: make([]uint64, len(m.regs)),
		stored:  make([]int, len(m.regs)),
		pending: make([]bool, len(m.blocks)),
		cursor:  -1,
	}
	for i := range in.pending {
		in.pending[i] = true
	}
	// registers power up at zero, a committed value
	for _, r := range m.regs {
		in.known[r.sig] |= widthMask(r.width)
	}
	return in
}
