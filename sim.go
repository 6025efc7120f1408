package rtlsim

import (
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

// A Peripheral is an external collaborator that holds requests across
// steps, such as a memory with an access delay. BeforeStep runs before
// combinational settling and drives response pins (or invalidates them
// while a request is still in flight); AfterSettle runs on the settled
// state, before the clock edge, and samples request pins.
type Peripheral interface {
	BeforeStep(in *Instance) error
	AfterSettle(in *Instance) error
}

// A Snapshot carries the settled, pre-commit values of every signal of
// one step.
type Snapshot struct {
	Step   uint64
	Values map[string]Value
}

// A Simulator drives an instance step by step: apply inputs, settle
// combinational logic, check or record, commit the clock edge.
type Simulator struct {
	inst    *Instance
	log     log.Logger
	hooks   []func(Snapshot)
	peris   []Peripheral
	settled bool
}

// New returns a simulator over a fresh instance of the model.
func New(m *Model) *Simulator {
	l := log.New("model", m.name)
	l.SetHandler(log.DiscardHandler())
	return &Simulator{inst: m.NewInstance(), log: l}
}

// SetLogger installs a structured logger. Step activity is logged at
// debug level. The default logger discards everything.
func (s *Simulator) SetLogger(l log.Logger) { s.log = l }

// Instance returns the simulator's instance, for pin-level access.
func (s *Simulator) Instance() *Instance { return s.inst }

// OnStep registers a hook invoked once per step with the settled
// values of all signals, before the clock edge. Recording formats are
// the hook's business.
func (s *Simulator) OnStep(fn func(Snapshot)) {
	s.hooks = append(s.hooks, fn)
}

// AddPeripheral attaches an external collaborator to the step loop.
func (s *Simulator) AddPeripheral(p Peripheral) {
	s.peris = append(s.peris, p)
}

func (s *Simulator) signal(name string) (*Signal, error) {
	sig := s.inst.m.Signal(name)
	if sig == nil {
		return nil, errors.Errorf("model %s has no signal %q", s.inst.m.name, name)
	}
	return sig, nil
}

// Poke drives a named signal. See Instance.Poke.
func (s *Simulator) Poke(name string, bits uint64) error {
	sig, err := s.signal(name)
	if err != nil {
		return err
	}
	s.settled = false
	return s.inst.Poke(sig, bits)
}

// Peek samples a named signal.
func (s *Simulator) Peek(name string) (Value, error) {
	sig, err := s.signal(name)
	if err != nil {
		return Value{}, err
	}
	return s.inst.Peek(sig), nil
}

// eval brings the instance to its settled state for the current step,
// running peripherals first so their responses take part in settling.
func (s *Simulator) eval() error {
	if s.settled {
		return nil
	}
	for _, p := range s.peris {
		if err := p.BeforeStep(s.inst); err != nil {
			return err
		}
	}
	n := s.inst.Settle()
	s.log.Debug("settled", "step", s.inst.StepCount(), "blocks", n)
	s.settled = true
	return nil
}

// tick finishes the step: trace hooks see the settled pre-commit
// state, peripherals sample their requests, then the clock edge
// commits every register shadow.
func (s *Simulator) tick() error {
	if len(s.hooks) > 0 {
		snap := s.snapshot()
		for _, h := range s.hooks {
			h(snap)
		}
	}
	for _, p := range s.peris {
		if err := p.AfterSettle(s.inst); err != nil {
			return err
		}
	}
	s.inst.ClockEdge()
	s.settled = false
	return nil
}

func (s *Simulator) snapshot() Snapshot {
	vals := make(map[string]Value, len(s.inst.m.signals))
	for _, sig := range s.inst.m.signals {
		vals[sig.name] = s.inst.Peek(sig)
	}
	return Snapshot{Step: s.inst.StepCount(), Values: vals}
}

// Step runs one full simulation step: apply the given input
// assignment (partial; unassigned inputs keep their value), settle,
// commit the clock edge. It returns the settled pre-commit snapshot.
func (s *Simulator) Step(inputs map[string]uint64) (Snapshot, error) {
	for name, bits := range inputs {
		if err := s.Poke(name, bits); err != nil {
			return Snapshot{}, err
		}
	}
	if err := s.eval(); err != nil {
		return Snapshot{}, err
	}
	snap := s.snapshot()
	if err := s.tick(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// RunVectors drives the simulator with n test vectors. For each index
// it calls apply, settles, calls check against the settled pre-commit
// state, then commits the clock edge. The run aborts at the first
// failure with a VectorError wrapping the vector index.
func (s *Simulator) RunVectors(n int, apply func(s *Simulator, i int) error, check func(s *Simulator, i int) error) error {
	for i := 0; i < n; i++ {
		if apply != nil {
			if err := apply(s, i); err != nil {
				return &VectorError{Index: i, Err: err}
			}
		}
		if err := s.eval(); err != nil {
			return &VectorError{Index: i, Err: err}
		}
		if check != nil {
			if err := check(s, i); err != nil {
				return &VectorError{Index: i, Err: err}
			}
		}
		if err := s.tick(); err != nil {
			return &VectorError{Index: i, Err: err}
		}
	}
	return nil
}
