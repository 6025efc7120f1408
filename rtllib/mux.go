package rtllib

import (
	"github.com/rtlgo/rtlsim"
)

// Mux adds a 2-way multiplexer: out = a if sel == 0, b otherwise.
func Mux(d *rtlsim.Design, name string, sel, a, b, out rtlsim.Pin) {
	d.Comb(name, []rtlsim.Pin{sel, a, b}, []rtlsim.Pin{out}, func(v *rtlsim.Values) {
		if v.Get(sel) == 0 {
			v.Set(out, v.Get(a))
		} else {
			v.Set(out, v.Get(b))
		}
	})
}

// MuxN adds an n-way multiplexer over ins, indexed by sel. A sel value
// beyond the inputs drives out to zero.
func MuxN(d *rtlsim.Design, name string, sel, out rtlsim.Pin, ins ...rtlsim.Pin) {
	reads := append([]rtlsim.Pin{sel}, ins...)
	d.Comb(name, reads, []rtlsim.Pin{out}, func(v *rtlsim.Values) {
		if i := v.Get(sel); i < uint64(len(ins)) {
			v.Set(out, v.Get(ins[i]))
		} else {
			v.Set(out, 0)
		}
	})
}
