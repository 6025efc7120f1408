package rtlsim

import (
	"github.com/pkg/errors"
)

// DefaultDomain is the clock domain a register belongs to unless
// reassigned before compilation.
const DefaultDomain = "clk"

// A CombFn is the body of a combinational block. It must be a pure
// function of the block's declared reads, writing only its declared
// writes; access through Values is checked against the declaration.
type CombFn func(v *Values)

// A SeqFn is the body of a sequential block. It runs after
// combinational settling, reads the settled state and stores register
// next values. Stored values become visible only after the clock edge.
type SeqFn func(v *Values)

// A Reg is an edge-triggered register. Its committed value is exposed
// through the storage signal Q; next values stored during a step are
// buffered and committed atomically at the step's clock edge. A
// register not stored to during a step keeps its value.
type Reg struct {
	Q      *Signal
	Domain string

	id int
	d  *Design
}

// Feed declares src as the register's next-value input: on every clock
// edge the register captures the settled value of src.
func (r *Reg) Feed(src Pin) {
	if pinWidth(src) != r.Q.width {
		r.d.fail(errors.Errorf("register %s: next-value source %s is %d bits wide, want %d",
			r.Q.name, PinName(src), pinWidth(src), r.Q.width))
		return
	}
	reg := r
	r.d.Seq(r.Q.name+"$next", []Pin{src}, []*Reg{r}, func(v *Values) {
		v.Store(reg, v.Get(src))
	})
}

type connection struct {
	src Pin // nil for a constant tie
	cst uint64
	dst Pin
}

type combDecl struct {
	name   string
	reads  []Pin
	writes []Pin
	fn     CombFn
}

type seqDecl struct {
	name  string
	reads []Pin
	regs  []*Reg
	fn    SeqFn
}

// A Design is the elaboration registry for a model. Signals,
// connections, combinational blocks, sequential blocks and registers
// are declared on it; Compile freezes the declarations into a Model.
//
// Declaration methods validate their arguments immediately but report
// violations only through Compile, so that elaboration code can stay
// free of error plumbing.
type Design struct {
	name    string
	signals []*Signal
	names   map[string]*Signal
	conns   []connection
	combs   []combDecl
	seqs    []seqDecl
	regs    []*Reg
	errs    []error
}

// NewDesign returns an empty design named name.
func NewDesign(name string) *Design {
	return &Design{name: name, names: make(map[string]*Signal)}
}

// Name returns the design name.
func (d *Design) Name() string { return d.name }

func (d *Design) fail(err error) {
	d.errs = append(d.errs, err)
}

func (d *Design) newSignal(name string, width int, kind SignalKind) *Signal {
	if width < 1 || width > MaxWidth {
		d.fail(errors.Errorf("signal %s: width %d out of range 1..%d", name, width, MaxWidth))
		if width < 1 {
			width = 1
		} else {
			width = MaxWidth
		}
	}
	if _, ok := d.names[name]; ok {
		d.fail(errors.Errorf("signal %s declared twice", name))
	}
	s := &Signal{id: len(d.signals), name: name, width: width, kind: kind}
	d.signals = append(d.signals, s)
	d.names[name] = s
	return s
}

// Input declares a top-level input port. Input bits have no producer
// inside the model and are driven externally through Poke.
func (d *Design) Input(name string, width int) *Signal {
	return d.newSignal(name, width, Input)
}

// Output declares a top-level output port.
func (d *Design) Output(name string, width int) *Signal {
	return d.newSignal(name, width, Output)
}

// Wire declares an internal signal.
func (d *Design) Wire(name string, width int) *Signal {
	return d.newSignal(name, width, Internal)
}

func (d *Design) checkPin(p Pin) error {
	if p == nil {
		return errors.New("nil pin")
	}
	s, lo, hi := p.pin()
	if s == nil {
		return errors.New("pin with nil signal")
	}
	if d.names[s.name] != s {
		return errors.Errorf("signal %s does not belong to design %s", s.name, d.name)
	}
	if lo < 0 || hi <= lo || hi > s.width {
		return errors.Errorf("slice %s[%d:%d] out of range for %d-bit signal", s.name, lo, hi, s.width)
	}
	return nil
}

// Connect declares a directed connection driving dst from src. Both
// endpoints must have the same width, and dst must not be (part of) an
// input port.
func (d *Design) Connect(src, dst Pin) {
	if err := d.checkPin(src); err != nil {
		d.fail(errors.Wrap(err, "connect source"))
		return
	}
	if err := d.checkPin(dst); err != nil {
		d.fail(errors.Wrap(err, "connect destination"))
		return
	}
	if pinWidth(src) != pinWidth(dst) {
		d.fail(errors.Errorf("connection %s -> %s: width mismatch (%d -> %d bits)",
			PinName(src), PinName(dst), pinWidth(src), pinWidth(dst)))
		return
	}
	if sig, _, _ := dst.pin(); sig.kind == Input {
		d.fail(errors.Errorf("connection %s -> %s: cannot drive an input port",
			PinName(src), PinName(dst)))
		return
	}
	d.conns = append(d.conns, connection{src: src, dst: dst})
}

// Tie drives dst with the constant value.
func (d *Design) Tie(value uint64, dst Pin) {
	if err := d.checkPin(dst); err != nil {
		d.fail(errors.Wrap(err, "tie destination"))
		return
	}
	if sig, _, _ := dst.pin(); sig.kind == Input {
		d.fail(errors.Errorf("tie -> %s: cannot drive an input port", PinName(dst)))
		return
	}
	if _, lo, hi := dst.pin(); value&^widthMask(hi-lo) != 0 {
		d.fail(errors.Errorf("tie -> %s: constant %#x does not fit in %d bits",
			PinName(dst), value, hi-lo))
		return
	}
	d.conns = append(d.conns, connection{dst: dst, cst: value})
}

// Comb declares a combinational block. reads is the block's explicit
// sensitivity set: the block is re-evaluated whenever any bit of any
// read pin changes within a step. writes is the set of pins the body
// may produce. A block may not write into its own sensitivity set;
// cross-block cycles are detected at compile time.
func (d *Design) Comb(name string, reads, writes []Pin, fn CombFn) {
	for _, p := range reads {
		if err := d.checkPin(p); err != nil {
			d.fail(errors.Wrapf(err, "block %s reads", name))
			return
		}
	}
	if len(writes) == 0 {
		d.fail(errors.Errorf("block %s has no outputs", name))
		return
	}
	for _, w := range writes {
		if err := d.checkPin(w); err != nil {
			d.fail(errors.Wrapf(err, "block %s writes", name))
			return
		}
		ws, wlo, whi := w.pin()
		if ws.kind == Input {
			d.fail(errors.Errorf("block %s writes input port %s", name, PinName(w)))
			return
		}
		for _, r := range reads {
			rs, rlo, rhi := r.pin()
			if rs == ws && rlo < whi && wlo < rhi {
				d.fail(errors.Errorf("block %s writes its own input %s", name, PinName(w)))
				return
			}
		}
	}
	if fn == nil {
		d.fail(errors.Errorf("block %s has no body", name))
		return
	}
	d.combs = append(d.combs, combDecl{name: name, reads: reads, writes: writes, fn: fn})
}

// Register declares an edge-triggered register of the given width in
// the default clock domain. The register's committed value is readable
// through the returned Reg's Q signal.
func (d *Design) Register(name string, width int) *Reg {
	q := d.newSignal(name, width, Internal)
	r := &Reg{Q: q, Domain: DefaultDomain, id: len(d.regs), d: d}
	d.regs = append(d.regs, r)
	return r
}

// Seq declares a sequential block computing next values for regs from
// the settled combinational state. The body may call Get on the
// declared reads and Store on the declared registers only.
func (d *Design) Seq(name string, reads []Pin, regs []*Reg, fn SeqFn) {
	for _, p := range reads {
		if err := d.checkPin(p); err != nil {
			d.fail(errors.Wrapf(err, "block %s reads", name))
			return
		}
	}
	if len(regs) == 0 {
		d.fail(errors.Errorf("block %s stores to no registers", name))
		return
	}
	for _, r := range regs {
		if r == nil || r.d != d {
			d.fail(errors.Errorf("block %s stores to a register of another design", name))
			return
		}
	}
	if fn == nil {
		d.fail(errors.Errorf("block %s has no body", name))
		return
	}
	d.seqs = append(d.seqs, seqDecl{name: name, reads: reads, regs: regs, fn: fn})
}
