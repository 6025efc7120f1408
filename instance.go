package rtlsim

import (
	"fmt"

	"github.com/pkg/errors"
)

// An Instance owns the mutable simulation state of one run of a Model:
// signal values, known-bit masks and register shadows. Instances of
// the same model are independent and may run concurrently; a single
// instance is not safe for concurrent use.
type Instance struct {
	m       *Model
	values  []uint64
	known   []uint64
	shadows []uint64
	stored  []int // 1+block index of the sequential block that stored, 0 if none
	pending []bool
	cursor  int // topological position during settling, -1 outside
	steps   uint64
}

// Model returns the compiled model the instance runs.
func (in *Instance) Model() *Model { return in.m }

// StepCount returns the number of clock edges committed so far.
func (in *Instance) StepCount() uint64 { return in.steps }

func (in *Instance) checkPin(p Pin) (*Signal, int, int) {
	if p == nil {
		panic("nil pin")
	}
	sig, lo, hi := p.pin()
	if sig == nil || in.m.byName[sig.name] != sig {
		panic("pin does not belong to model " + in.m.name)
	}
	if lo < 0 || hi <= lo || hi > sig.width {
		panic(fmt.Sprintf("slice %s[%d:%d] out of range for %d-bit signal", sig.name, lo, hi, sig.width))
	}
	return sig, lo, hi
}

func (in *Instance) read(sig *Signal, lo, hi int) uint64 {
	return (in.values[sig.id] >> uint(lo)) & widthMask(hi-lo)
}

// write stores bits into [lo, hi) of sig and schedules every consumer
// whose sensitivity range overlaps a bit that actually changed.
// Writing an identical, already-known value schedules nothing. A
// transition between known and unknown counts as a change.
func (in *Instance) write(sig *Signal, lo, hi int, bits uint64, known bool) {
	m := rangeMask(lo, hi)
	old := in.values[sig.id]
	val := old&^m | (bits<<uint(lo))&m
	oldK := in.known[sig.id]
	newK := oldK &^ m
	if known {
		newK = oldK | m
	}
	changed := (old^val)&m | (oldK^newK)&m
	in.values[sig.id] = val
	in.known[sig.id] = newK
	if changed != 0 {
		in.wake(sig.id, changed)
	}
}

func (in *Instance) wake(sig int, changed uint64) {
	for _, w := range in.m.fanout[sig] {
		if rangeMask(w.lo, w.hi)&changed == 0 || in.pending[w.blk] {
			continue
		}
		if in.cursor >= 0 && in.m.pos[w.blk] <= in.cursor {
			// cannot happen on a graph that passed compilation
			panic("scheduling inconsistency: block " + in.m.blocks[w.blk].name +
				" written behind the evaluation cursor")
		}
		in.pending[w.blk] = true
	}
}

// Settle evaluates pending combinational blocks in the static
// topological order until the instance is quiescent. On a compiled
// model this is a single pass: every affected block runs exactly once
// per step, after all of its inputs hold their final value. It returns
// the number of blocks evaluated.
func (in *Instance) Settle() int {
	evaluated := 0
	for i, b := range in.m.order {
		if !in.pending[b] {
			continue
		}
		in.cursor = i
		in.pending[b] = false
		blk := in.m.blocks[b]
		v := Values{in: in, name: blk.name, reads: blk.reads, writes: blk.writes}
		v.knownIn = in.rangesKnown(blk.reads)
		blk.fn(&v)
		evaluated++
	}
	in.cursor = -1
	return evaluated
}

func (in *Instance) rangesKnown(pins []Pin) bool {
	for _, p := range pins {
		sig, lo, hi := p.pin()
		m := rangeMask(lo, hi)
		if in.known[sig.id]&m != m {
			return false
		}
	}
	return true
}

// ClockEdge runs the sequential blocks against the settled state and
// then commits register shadows. All next values are computed before
// any register commits, so no commit is visible to another register's
// next-value computation within the same edge. If domains are given,
// only registers in those domains commit; by default every domain
// does. Registers not stored to keep their value.
func (in *Instance) ClockEdge(domains ...string) {
	for i := range in.m.seqs {
		sq := &in.m.seqs[i]
		v := Values{in: in, name: sq.name, reads: sq.reads, regs: sq.regs, seq: i + 1, knownIn: true}
		sq.fn(&v)
	}
	for i := range in.m.regs {
		r := &in.m.regs[i]
		if len(domains) > 0 && !containsString(domains, r.domain) {
			continue
		}
		if in.stored[i] == 0 {
			continue
		}
		in.stored[i] = 0
		in.write(in.m.signals[r.sig], 0, r.width, in.shadows[i], true)
	}
	in.steps++
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Poke drives bits onto a pin from outside the model. Only bits with
// no producer inside the model (input ports, undriven wire ranges) can
// be poked.
func (in *Instance) Poke(p Pin, bits uint64) error {
	sig, lo, hi := in.checkPin(p)
	if in.m.driven[sig.id]&rangeMask(lo, hi) != 0 {
		return errors.Errorf("cannot poke %s: bits are driven inside the model", PinName(p))
	}
	if bits&^widthMask(hi-lo) != 0 {
		return errors.Errorf("poke %s: value %#x does not fit in %d bits", PinName(p), bits, hi-lo)
	}
	in.write(sig, lo, hi, bits, true)
	return nil
}

// Invalidate marks an externally driven pin unknown, keeping its last
// bits. Consumers are re-evaluated and propagate the unknown state.
func (in *Instance) Invalidate(p Pin) error {
	sig, lo, hi := in.checkPin(p)
	if in.m.driven[sig.id]&rangeMask(lo, hi) != 0 {
		return errors.Errorf("cannot invalidate %s: bits are driven inside the model", PinName(p))
	}
	in.write(sig, lo, hi, in.read(sig, lo, hi), false)
	return nil
}

// Peek samples the current value of a pin. Known is true only if every
// bit of the range has been produced; an unknown value must not be
// taken for zero.
func (in *Instance) Peek(p Pin) Value {
	sig, lo, hi := in.checkPin(p)
	m := rangeMask(lo, hi)
	return Value{
		Bits:  in.read(sig, lo, hi),
		Known: in.known[sig.id]&m == m,
	}
}

// Values gives a block body checked access to instance storage during
// its evaluation. Get is restricted to the block's declared reads, Set
// to its declared writes and Store to its declared registers; any
// access outside the declaration is a fatal consistency error.
type Values struct {
	in      *Instance
	name    string
	reads   []Pin
	writes  []Pin
	regs    []*Reg
	seq     int // 1+sequential block index, 0 for combinational
	knownIn bool
}

func coveredBy(p Pin, decl []Pin) bool {
	s, lo, hi := p.pin()
	for _, d := range decl {
		ds, dlo, dhi := d.pin()
		if ds == s && dlo <= lo && hi <= dhi {
			return true
		}
	}
	return false
}

// Get reads a pin from the block's declared sensitivity set.
func (v *Values) Get(p Pin) uint64 {
	if !coveredBy(p, v.reads) {
		panic("block " + v.name + " reads outside its sensitivity set: " + PinName(p))
	}
	sig, lo, hi := p.pin()
	return v.in.read(sig, lo, hi)
}

// Set writes a pin from the block's declared output set. Bits beyond
// the pin width are discarded.
func (v *Values) Set(p Pin, bits uint64) {
	if v.seq != 0 {
		panic("sequential block " + v.name + " writes signal " + PinName(p) + "; use Store")
	}
	if !coveredBy(p, v.writes) {
		panic("block " + v.name + " writes outside its declared outputs: " + PinName(p))
	}
	sig, lo, hi := p.pin()
	v.in.write(sig, lo, hi, bits&widthMask(hi-lo), v.knownIn)
}

// Store buffers the register's next value. It becomes visible on Q
// only after the clock edge. Two sequential blocks storing to the same
// register in one step is a fatal consistency error.
func (v *Values) Store(r *Reg, bits uint64) {
	if v.seq == 0 {
		panic("combinational block " + v.name + " stores to register " + r.Q.name)
	}
	found := false
	for _, d := range v.regs {
		if d == r {
			found = true
			break
		}
	}
	if !found {
		panic("block " + v.name + " stores outside its declared registers: " + r.Q.name)
	}
	if s := v.in.stored[r.id]; s != 0 && s != v.seq {
		panic("register " + r.Q.name + " stored by two blocks in one step: " +
			v.in.m.seqs[s-1].name + " and " + v.name)
	}
	v.in.shadows[r.id] = bits & widthMask(r.Q.width)
	v.in.stored[r.id] = v.seq
}
