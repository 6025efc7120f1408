package rtllib

import (
	"github.com/rtlgo/rtlsim"
)

type memOp struct {
	due  uint64
	wr   bool
	addr uint64
	data uint64
}

// Memory is a word-addressed RAM attached to a simulator as a
// peripheral. Requests sampled from the settled state of step t
// resolve at step t+1+delay: until then a read leaves RData unknown
// and RValid low, which the kernel keeps distinct from a zero value.
// The initial contents come from an opaque address-to-word image; the
// image encoding is the loader's business.
type Memory struct {
	En     *rtlsim.Signal // request strobe
	Wr     *rtlsim.Signal // 1 = write, 0 = read
	Addr   *rtlsim.Signal
	WData  *rtlsim.Signal
	RData  *rtlsim.Signal // unknown while no read response is due
	RValid *rtlsim.Signal

	delay uint64
	words map[uint64]uint64
	queue []memOp
}

// NewMemory declares the memory's port signals on d, prefixed with
// name, and returns the peripheral to attach with AddPeripheral.
// delay is the number of extra steps a request is held beyond the
// single-step turnaround. The image is copied.
func NewMemory(d *rtlsim.Design, name string, addrBits, dataBits, delay int, image map[uint64]uint64) *Memory {
	m := &Memory{
		En:     d.Input(name+".en", 1),
		Wr:     d.Input(name+".wr", 1),
		Addr:   d.Input(name+".addr", addrBits),
		WData:  d.Input(name+".wdata", dataBits),
		RData:  d.Wire(name+".rdata", dataBits),
		RValid: d.Wire(name+".rvalid", 1),
		delay:  uint64(delay),
		words:  make(map[uint64]uint64, len(image)),
	}
	for a, w := range image {
		m.words[a] = w
	}
	return m
}

// BeforeStep resolves requests that have served their delay. Writes
// land in the backing store; a due read drives RData and RValid for
// this step. With no read due, RData is invalidated.
func (m *Memory) BeforeStep(in *rtlsim.Instance) error {
	read := false
	for len(m.queue) > 0 && m.queue[0].due <= in.StepCount() {
		op := m.queue[0]
		m.queue = m.queue[1:]
		if op.wr {
			m.words[op.addr] = op.data
			continue
		}
		if err := in.Poke(m.RData, m.words[op.addr]); err != nil {
			return err
		}
		if err := in.Poke(m.RValid, 1); err != nil {
			return err
		}
		read = true
		break // one read response per step
	}
	if !read {
		if err := in.Invalidate(m.RData); err != nil {
			return err
		}
		if err := in.Poke(m.RValid, 0); err != nil {
			return err
		}
	}
	return nil
}

// AfterSettle samples a request from the settled state.
func (m *Memory) AfterSettle(in *rtlsim.Instance) error {
	en := in.Peek(m.En)
	if !en.Known || en.Bits == 0 {
		return nil
	}
	m.queue = append(m.queue, memOp{
		due:  in.StepCount() + 1 + m.delay,
		wr:   in.Peek(m.Wr).Bits != 0,
		addr: in.Peek(m.Addr).Bits,
		data: in.Peek(m.WData).Bits,
	})
	return nil
}

// Word returns the current backing-store word at addr.
func (m *Memory) Word(addr uint64) uint64 { return m.words[addr] }
