package main

import (
	"github.com/rtlgo/rtlsim"
	"github.com/rtlgo/rtlsim/rtllib"
)

// designs maps bench design names to builders. Every bench run
// compiles its own model; compilation is cheap and keeps benches
// independent.
var designs = map[string]func() (*rtlsim.Model, error){
	"regfile": regFileDesign,
	"alu":     aluDesign,
}

// regfile: an 8 x 16-bit register file, 1 read port, 1 write port.
// Signals: rf.rd_addr0, rf.rd_data0, rf.wr_en, rf.wr_addr, rf.wr_data.
func regFileDesign() (*rtlsim.Model, error) {
	d := rtlsim.NewDesign("regfile")
	rtllib.RegisterFile(d, "rf", 16, 8, 1)
	return rtlsim.Compile(d)
}

// alu: a 16-bit combinational ALU.
// Signals: a, b, op (0 add, 1 and, 2 or, 3 xor), out.
func aluDesign() (*rtlsim.Model, error) {
	d := rtlsim.NewDesign("alu")
	a := d.Input("a", 16)
	b := d.Input("b", 16)
	op := d.Input("op", 2)
	out := d.Output("out", 16)

	add := d.Wire("add_out", 16)
	and := d.Wire("and_out", 16)
	or := d.Wire("or_out", 16)
	xor := d.Wire("xor_out", 16)

	rtllib.Adder(d, "add", a, b, add)
	rtllib.And(d, "and", a, b, and)
	rtllib.Or(d, "or", a, b, or)
	rtllib.Xor(d, "xor", a, b, xor)
	rtllib.MuxN(d, "sel", op, out, add, and, or, xor)

	return rtlsim.Compile(d)
}
