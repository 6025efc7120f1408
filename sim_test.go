package rtlsim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtlgo/rtlsim"
	"github.com/rtlgo/rtlsim/rtltest"
)

// Regression for slice writes vanishing across hierarchy levels: an
// input drives the low bits of a wider wire, the rest is tied off, and
// a consumer watches a single bit of that wire. A change to the input
// must reach the bit consumer.
func TestSlicedConnectionPropagation(t *testing.T) {
	d := rtlsim.NewDesign("slices")
	a := d.Input("a", 2)
	m := d.Wire("m", 4)
	out := d.Output("out", 1)
	d.Connect(a, m.Slice(0, 2))
	d.Tie(0, m.Slice(2, 4))
	d.Connect(m.Bit(0), out)

	model, err := rtlsim.Compile(d)
	require.NoError(t, err)

	rtltest.Run(t, rtlsim.New(model), "a out*", [][]int64{
		{1, 1},
		{2, 0},
		{3, 1},
	})
}

func TestRunVectorsReportsIndex(t *testing.T) {
	d := rtlsim.NewDesign("vec")
	a := d.Input("a", 4)
	out := d.Output("out", 4)
	d.Connect(a, out)

	model, err := rtlsim.Compile(d)
	require.NoError(t, err)

	err = rtltest.RunVectors(rtlsim.New(model), "a out*", [][]int64{
		{1, 1},
		{2, 2},
		{3, 4}, // wrong on purpose
	})
	require.Error(t, err)
	var verr *rtlsim.VectorError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, verr.Index)
}

// Step takes a partial input assignment; unassigned inputs keep the
// value of the previous step.
func TestStepPartialInputs(t *testing.T) {
	d := rtlsim.NewDesign("partial")
	a := d.Input("a", 8)
	b := d.Input("b", 8)
	out := d.Output("out", 8)
	d.Comb("add", []rtlsim.Pin{a, b}, []rtlsim.Pin{out}, func(v *rtlsim.Values) {
		v.Set(out, v.Get(a)+v.Get(b))
	})

	model, err := rtlsim.Compile(d)
	require.NoError(t, err)
	sim := rtlsim.New(model)

	snap, err := sim.Step(map[string]uint64{"a": 3, "b": 4})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), snap.Values["out"].Bits)

	snap, err = sim.Step(map[string]uint64{"a": 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(14), snap.Values["out"].Bits, "b must retain its previous value")
}

// OnStep hooks observe the settled pre-commit state: on the step that
// loads a register, the hook still sees the old register value.
func TestOnStepSeesPreCommitState(t *testing.T) {
	d := rtlsim.NewDesign("hook")
	a := d.Input("a", 8)
	r := d.Register("q", 8)
	r.Feed(a)

	model, err := rtlsim.Compile(d)
	require.NoError(t, err)
	sim := rtlsim.New(model)

	var qs []rtlsim.Value
	sim.OnStep(func(snap rtlsim.Snapshot) {
		qs = append(qs, snap.Values["q"])
	})

	_, err = sim.Step(map[string]uint64{"a": 11})
	require.NoError(t, err)
	_, err = sim.Step(map[string]uint64{"a": 22})
	require.NoError(t, err)

	require.Len(t, qs, 2)
	assert.Equal(t, rtlsim.Value{Bits: 0, Known: true}, qs[0])
	assert.Equal(t, rtlsim.Value{Bits: 11, Known: true}, qs[1])
}

func TestSimulatorUnknownSignalName(t *testing.T) {
	d := rtlsim.NewDesign("names")
	a := d.Input("a", 1)
	out := d.Output("out", 1)
	d.Connect(a, out)

	model, err := rtlsim.Compile(d)
	require.NoError(t, err)
	sim := rtlsim.New(model)

	assert.Error(t, sim.Poke("nope", 0))
	_, err = sim.Peek("nope")
	assert.Error(t, err)
}
