package rtllib

import (
	"github.com/rtlgo/rtlsim"
)

// Adder adds a block driving out with a + b, truncated to the width of
// out.
func Adder(d *rtlsim.Design, name string, a, b, out rtlsim.Pin) {
	gate(d, name, a, b, out, func(a, b uint64) uint64 { return a + b })
}

// AdderC is an Adder with a 1-bit carry output.
func AdderC(d *rtlsim.Design, name string, a, b, out, cout rtlsim.Pin) {
	w := uint(rtlsim.PinWidth(out))
	d.Comb(name, []rtlsim.Pin{a, b}, []rtlsim.Pin{out, cout}, func(v *rtlsim.Values) {
		sum := v.Get(a) + v.Get(b)
		v.Set(out, sum)
		v.Set(cout, sum>>w)
	})
}

// Incr adds a block driving out with in + 1, truncated.
func Incr(d *rtlsim.Design, name string, in, out rtlsim.Pin) {
	d.Comb(name, []rtlsim.Pin{in}, []rtlsim.Pin{out}, func(v *rtlsim.Values) {
		v.Set(out, v.Get(in)+1)
	})
}

// LShifter adds a logical left shifter: out = in << shamt.
func LShifter(d *rtlsim.Design, name string, in, shamt, out rtlsim.Pin) {
	gate(d, name, in, shamt, out, func(in, sh uint64) uint64 {
		if sh >= rtlsim.MaxWidth {
			return 0
		}
		return in << sh
	})
}

// RShifter adds a logical right shifter: out = in >> shamt.
func RShifter(d *rtlsim.Design, name string, in, shamt, out rtlsim.Pin) {
	gate(d, name, in, shamt, out, func(in, sh uint64) uint64 {
		if sh >= rtlsim.MaxWidth {
			return 0
		}
		return in >> sh
	})
}

// ZeroExtend adds a block driving a wider out with in, upper bits
// cleared.
func ZeroExtend(d *rtlsim.Design, name string, in, out rtlsim.Pin) {
	d.Comb(name, []rtlsim.Pin{in}, []rtlsim.Pin{out}, func(v *rtlsim.Values) {
		v.Set(out, v.Get(in))
	})
}
