// Package rtllib provides standard word-level parts built on the
// rtlsim kernel: gates, arithmetic, multiplexers, a register file and
// a memory with a configurable access delay. Parts register their
// blocks on a Design during elaboration; structural violations are
// reported by rtlsim.Compile.
package rtllib

import (
	"github.com/rtlgo/rtlsim"
)

func gate(d *rtlsim.Design, name string, a, b, out rtlsim.Pin, fn func(a, b uint64) uint64) {
	d.Comb(name, []rtlsim.Pin{a, b}, []rtlsim.Pin{out}, func(v *rtlsim.Values) {
		v.Set(out, fn(v.Get(a), v.Get(b)))
	})
}

// Not adds a block driving out with the bitwise complement of in.
func Not(d *rtlsim.Design, name string, in, out rtlsim.Pin) {
	d.Comb(name, []rtlsim.Pin{in}, []rtlsim.Pin{out}, func(v *rtlsim.Values) {
		v.Set(out, ^v.Get(in))
	})
}

// And adds a bitwise AND block.
func And(d *rtlsim.Design, name string, a, b, out rtlsim.Pin) {
	gate(d, name, a, b, out, func(a, b uint64) uint64 { return a & b })
}

// Nand adds a bitwise NAND block.
func Nand(d *rtlsim.Design, name string, a, b, out rtlsim.Pin) {
	gate(d, name, a, b, out, func(a, b uint64) uint64 { return ^(a & b) })
}

// Or adds a bitwise OR block.
func Or(d *rtlsim.Design, name string, a, b, out rtlsim.Pin) {
	gate(d, name, a, b, out, func(a, b uint64) uint64 { return a | b })
}

// Xor adds a bitwise XOR block.
func Xor(d *rtlsim.Design, name string, a, b, out rtlsim.Pin) {
	gate(d, name, a, b, out, func(a, b uint64) uint64 { return a ^ b })
}
