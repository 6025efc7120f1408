package rtlsim

import "strconv"

// MaxWidth is the widest supported signal. Signal values are stored in
// a single uint64 word.
const MaxWidth = 64

// SignalKind indicates how a signal is exposed by its design.
type SignalKind uint8

// Signal kinds.
const (
	Internal SignalKind = iota
	Input
	Output
)

func (k SignalKind) String() string {
	switch k {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "internal"
	}
}

// A Signal is a named fixed-width storage cell in a design: an input
// port, an output port, or an internal wire. Signals are declared
// during elaboration and are structurally immutable afterwards; only
// their value mutates during simulation.
type Signal struct {
	id    int
	name  string
	width int
	kind  SignalKind
}

// Name returns the signal's hierarchical name.
func (s *Signal) Name() string { return s.name }

// Width returns the signal's width in bits.
func (s *Signal) Width() int { return s.width }

// Kind returns the signal's kind.
func (s *Signal) Kind() SignalKind { return s.kind }

// Slice returns a view of bits [lo, hi) of s. A slice owns no storage:
// reads and writes through it are masked accesses to the backing
// signal. Range validity is checked when the slice is used as a
// connection or block endpoint.
func (s *Signal) Slice(lo, hi int) Slice { return Slice{sig: s, lo: lo, hi: hi} }

// Bit returns the single-bit slice [n, n+1) of s.
func (s *Signal) Bit(n int) Slice { return s.Slice(n, n+1) }

func (s *Signal) pin() (*Signal, int, int) { return s, 0, s.width }

// A Slice is a read/write view of a contiguous bit range of a Signal.
type Slice struct {
	sig    *Signal
	lo, hi int
}

// Signal returns the backing signal.
func (sl Slice) Signal() *Signal { return sl.sig }

// Range returns the slice's bit range [lo, hi).
func (sl Slice) Range() (lo, hi int) { return sl.lo, sl.hi }

func (sl Slice) pin() (*Signal, int, int) { return sl.sig, sl.lo, sl.hi }

// A Pin designates a connection or block endpoint: either a whole
// Signal or a Slice of one.
type Pin interface {
	pin() (sig *Signal, lo, hi int)
}

// A Value is a signal value sampled from a running instance. Known
// reports whether every bit of the sampled range has been produced;
// an unknown value is distinct from a known zero.
type Value struct {
	Bits  uint64
	Known bool
}

func pinWidth(p Pin) int {
	_, lo, hi := p.pin()
	return hi - lo
}

// PinWidth returns the width in bits of the range designated by p.
func PinWidth(p Pin) int { return pinWidth(p) }

// PinName returns a printable name for p: the signal name, optionally
// suffixed with the slice range.
func PinName(p Pin) string {
	s, lo, hi := p.pin()
	switch {
	case lo == 0 && hi == s.width:
		return s.name
	case hi == lo+1:
		return s.name + "[" + strconv.Itoa(lo) + "]"
	default:
		return s.name + "[" + strconv.Itoa(lo) + ":" + strconv.Itoa(hi) + "]"
	}
}

// rangeMask returns the storage bits covered by [lo, hi).
func rangeMask(lo, hi int) uint64 {
	m := ^uint64(0)
	if hi-lo < MaxWidth {
		m = 1<<uint(hi-lo) - 1
	}
	return m << uint(lo)
}

func widthMask(width int) uint64 { return rangeMask(0, width) }
