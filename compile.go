package rtlsim

import (
	"fmt"

	"github.com/pkg/errors"
)

// A compiled block is an elementary evaluation unit of the dependency
// graph: either a declared combinational block or a connection lowered
// to a bit-range transfer.
type compiledBlock struct {
	name   string
	reads  []Pin
	writes []Pin
	fn     CombFn
}

// A watcher is a fan-out index entry: blk must be re-evaluated when
// any bit of [lo, hi) of the indexed signal changes.
type watcher struct {
	lo, hi int
	blk    int
}

type compiledReg struct {
	name   string
	sig    int // Q signal id
	width  int
	domain string
}

// a producer is a registered writer of a signal bit range, kept during
// compilation to detect conflicting drivers.
type producer struct {
	lo, hi int
	name   string
}

// Compile freezes a design into a Model, building the dependency graph
// over elementary bit ranges, the fan-out index and the static
// evaluation order. It fails with the first structural error found:
// elaboration errors recorded on the design, conflicting drivers, or a
// combinational loop.
func Compile(d *Design) (*Model, error) {
	if len(d.errs) > 0 {
		return nil, d.errs[0]
	}

	blocks := make([]*compiledBlock, 0, len(d.combs)+len(d.conns))
	for i := range d.combs {
		c := &d.combs[i]
		blocks = append(blocks, &compiledBlock{name: c.name, reads: c.reads, writes: c.writes, fn: c.fn})
	}
	for i := range d.conns {
		blocks = append(blocks, lowerConnection(&d.conns[i]))
	}

	// Register every bit-range writer and reject overlapping drivers.
	prods := make([][]producer, len(d.signals))
	addProducer := func(sig *Signal, lo, hi int, name string) error {
		for _, p := range prods[sig.id] {
			if lo < p.hi && p.lo < hi {
				olo, ohi := lo, hi
				if p.lo > olo {
					olo = p.lo
				}
				if p.hi < ohi {
					ohi = p.hi
				}
				return &ConflictingDriverError{Signal: sig.name, Lo: olo, Hi: ohi, First: p.name, Second: name}
			}
		}
		prods[sig.id] = append(prods[sig.id], producer{lo: lo, hi: hi, name: name})
		return nil
	}
	for _, b := range blocks {
		for _, w := range b.writes {
			sig, lo, hi := w.pin()
			if err := addProducer(sig, lo, hi, b.name); err != nil {
				return nil, err
			}
		}
	}
	regs := make([]compiledReg, len(d.regs))
	for i, r := range d.regs {
		if err := addProducer(r.Q, 0, r.Q.width, "register "+r.Q.name); err != nil {
			return nil, err
		}
		regs[i] = compiledReg{name: r.Q.name, sig: r.Q.id, width: r.Q.width, domain: r.Domain}
	}
	driven := make([]uint64, len(d.signals))
	for id, ps := range prods {
		for _, p := range ps {
			driven[id] |= rangeMask(p.lo, p.hi)
		}
	}

	// Fan-out index: per signal, the consumers of each bit range.
	fanout := make([][]watcher, len(d.signals))
	for i, b := range blocks {
		for _, r := range b.reads {
			sig, lo, hi := r.pin()
			fanout[sig.id] = append(fanout[sig.id], watcher{lo: lo, hi: hi, blk: i})
		}
	}

	order, pos, err := schedule(blocks, fanout)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Signal, len(d.signals))
	for _, s := range d.signals {
		byName[s.name] = s
	}

	return &Model{
		name:    d.name,
		signals: d.signals,
		byName:  byName,
		blocks:  blocks,
		order:   order,
		pos:     pos,
		fanout:  fanout,
		driven:  driven,
		regs:    regs,
		seqs:    d.seqs,
	}, nil
}

// lowerConnection turns a connection into a transfer block so that the
// scheduler deals with a single kind of evaluation unit.
func lowerConnection(cn *connection) *compiledBlock {
	dst := cn.dst
	if cn.src == nil {
		cst := cn.cst
		return &compiledBlock{
			name:   fmt.Sprintf("%#x -> %s", cst, PinName(dst)),
			writes: []Pin{dst},
			fn:     func(v *Values) { v.Set(dst, cst) },
		}
	}
	src := cn.src
	return &compiledBlock{
		name:   PinName(src) + " -> " + PinName(dst),
		reads:  []Pin{src},
		writes: []Pin{dst},
		fn:     func(v *Values) { v.Set(dst, v.Get(src)) },
	}
}

// schedule computes a topological order over blocks at block
// granularity. An edge exists from a producer to every block whose
// sensitivity range overlaps one of its write ranges. Registers take
// no part here: feedback through a register is legal and the commit
// edge is not a combinational dependency.
func schedule(blocks []*compiledBlock, fanout [][]watcher) (order, pos []int, err error) {
	n := len(blocks)
	adj := make([][]int, n)
	indeg := make([]int, n)
	seen := make(map[[2]int]struct{})
	for i, b := range blocks {
		for _, w := range b.writes {
			sig, lo, hi := w.pin()
			for _, c := range fanout[sig.id] {
				if c.lo < hi && lo < c.hi {
					e := [2]int{i, c.blk}
					if _, ok := seen[e]; ok {
						continue
					}
					seen[e] = struct{}{}
					adj[i] = append(adj[i], c.blk)
					indeg[c.blk]++
				}
			}
		}
	}

	order = make([]int, 0, n)
	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range adj[u] {
			if indeg[v]--; indeg[v] == 0 {
				queue = append(queue, v)
			}
		}
	}
	if len(order) < n {
		return nil, nil, loopError(blocks, adj, indeg)
	}
	pos = make([]int, n)
	for i, b := range order {
		pos[b] = i
	}
	return order, pos, nil
}

// loopError extracts one cycle from the blocks left unordered by Kahn's
// algorithm and names its members.
func loopError(blocks []*compiledBlock, adj [][]int, indeg []int) error {
	n := len(blocks)
	const (
		white = iota
		gray
		black
	)
	state := make([]int, n)
	var stack []int
	var cycle []int

	var visit func(u int) bool
	visit = func(u int) bool {
		state[u] = gray
		stack = append(stack, u)
		for _, v := range adj[u] {
			if indeg[v] == 0 { // not part of any remaining cycle
				continue
			}
			if state[v] == gray {
				for i := len(stack) - 1; i >= 0; i-- {
					cycle = append([]int{stack[i]}, cycle...)
					if stack[i] == v {
						return true
					}
				}
			}
			if state[v] == white && visit(v) {
				return true
			}
		}
		state[u] = black
		stack = stack[:len(stack)-1]
		return false
	}

	for i := 0; i < n; i++ {
		if indeg[i] > 0 && state[i] == white && visit(i) {
			break
		}
	}
	names := make([]string, 0, len(cycle))
	for _, b := range cycle {
		names = append(names, blocks[b].name)
	}
	if len(names) == 0 {
		return errors.New("combinational loop detected")
	}
	return &CombinationalLoopError{Blocks: names}
}
