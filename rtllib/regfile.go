package rtllib

import (
	"math/bits"
	"strconv"

	"github.com/rtlgo/rtlsim"
)

// RegFile is the port set of a register file built by RegisterFile.
type RegFile struct {
	RdAddr []*rtlsim.Signal // one per read port
	RdData []*rtlsim.Signal
	WrEn   *rtlsim.Signal
	WrAddr *rtlsim.Signal
	WrData *rtlsim.Signal

	regs []*rtlsim.Reg
}

// RegisterFile builds an nregs x nbits register file with rdPorts read
// ports and one write port, its signals prefixed with name. Reads are
// combinational on the committed register state, writes land at the
// clock edge: a read and a write hitting the same address in the same
// step return the old value (read-before-write). A write-through port
// is a bypass the model author adds, not register-file behavior.
func RegisterFile(d *rtlsim.Design, name string, nbits, nregs, rdPorts int) *RegFile {
	abits := bits.Len(uint(nregs - 1))
	rf := &RegFile{
		WrEn:   d.Input(name+".wr_en", 1),
		WrAddr: d.Input(name+".wr_addr", abits),
		WrData: d.Input(name+".wr_data", nbits),
	}
	rf.regs = make([]*rtlsim.Reg, nregs)
	for i := range rf.regs {
		rf.regs[i] = d.Register(name+".r"+strconv.Itoa(i), nbits)
	}

	qs := make([]rtlsim.Pin, nregs)
	for i, r := range rf.regs {
		qs[i] = r.Q
	}
	for p := 0; p < rdPorts; p++ {
		ps := strconv.Itoa(p)
		rdAddr := d.Input(name+".rd_addr"+ps, abits)
		rdData := d.Output(name+".rd_data"+ps, nbits)
		rf.RdAddr = append(rf.RdAddr, rdAddr)
		rf.RdData = append(rf.RdData, rdData)
		reads := append([]rtlsim.Pin{rdAddr}, qs...)
		d.Comb(name+".rd"+ps, reads, []rtlsim.Pin{rdData}, func(v *rtlsim.Values) {
			if i := v.Get(rdAddr); i < uint64(nregs) {
				v.Set(rdData, v.Get(qs[i]))
			} else {
				v.Set(rdData, 0)
			}
		})
	}

	d.Seq(name+".wr", []rtlsim.Pin{rf.WrEn, rf.WrAddr, rf.WrData}, rf.regs, func(v *rtlsim.Values) {
		if v.Get(rf.WrEn) == 0 {
			return
		}
		if i := v.Get(rf.WrAddr); i < uint64(nregs) {
			v.Store(rf.regs[i], v.Get(rf.WrData))
		}
	})
	return rf
}

// Reg returns the register backing entry i, for direct inspection.
func (rf *RegFile) Reg(i int) *rtlsim.Reg { return rf.regs[i] }
