package rtlsim_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtlgo/rtlsim"
)

func passThrough(out rtlsim.Pin) func(v *rtlsim.Values) {
	return func(v *rtlsim.Values) { v.Set(out, 0) }
}

func TestCompileWidthMismatch(t *testing.T) {
	d := rtlsim.NewDesign("t")
	a := d.Input("a", 2)
	b := d.Wire("b", 4)
	d.Connect(a, b)

	_, err := rtlsim.Compile(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "width mismatch")
}

func TestCompileSliceOutOfRange(t *testing.T) {
	d := rtlsim.NewDesign("t")
	a := d.Input("a", 4)
	b := d.Wire("b", 4)
	d.Connect(a.Slice(2, 6), b.Slice(0, 4))

	_, err := rtlsim.Compile(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestCompileConflictingDrivers(t *testing.T) {
	d := rtlsim.NewDesign("t")
	a := d.Input("a", 4)
	b := d.Input("b", 4)
	x := d.Wire("x", 8)
	d.Connect(a, x.Slice(0, 4))
	d.Connect(b, x.Slice(2, 6)) // overlaps [2:4)

	_, err := rtlsim.Compile(d)
	require.Error(t, err)
	var cde *rtlsim.ConflictingDriverError
	require.True(t, errors.As(err, &cde), "want ConflictingDriverError, got %v", err)
	assert.Equal(t, "x", cde.Signal)
	assert.Equal(t, 2, cde.Lo)
	assert.Equal(t, 4, cde.Hi)
}

func TestCompileDisjointSliceDrivers(t *testing.T) {
	// a signal assembled from two disjoint slice connections is legal
	d := rtlsim.NewDesign("t")
	a := d.Input("a", 4)
	b := d.Input("b", 4)
	x := d.Wire("x", 8)
	d.Connect(a, x.Slice(0, 4))
	d.Connect(b, x.Slice(4, 8))

	_, err := rtlsim.Compile(d)
	require.NoError(t, err)
}

func TestCompileRegisterVsConnectionConflict(t *testing.T) {
	d := rtlsim.NewDesign("t")
	a := d.Input("a", 8)
	r := d.Register("q", 8)
	d.Connect(a, r.Q)

	_, err := rtlsim.Compile(d)
	var cde *rtlsim.ConflictingDriverError
	require.True(t, errors.As(err, &cde), "want ConflictingDriverError, got %v", err)
}

func TestCompileCombinationalLoop(t *testing.T) {
	d := rtlsim.NewDesign("t")
	a := d.Wire("a", 1)
	b := d.Wire("b", 1)
	d.Comb("fwd", []rtlsim.Pin{a}, []rtlsim.Pin{b}, passThrough(b))
	d.Comb("back", []rtlsim.Pin{b}, []rtlsim.Pin{a}, passThrough(a))

	_, err := rtlsim.Compile(d)
	require.Error(t, err)
	var cle *rtlsim.CombinationalLoopError
	require.True(t, errors.As(err, &cle), "want CombinationalLoopError, got %v", err)
	assert.Len(t, cle.Blocks, 2)
}

func TestCompileLoopThroughRegisterIsLegal(t *testing.T) {
	// feedback through a register is sequential, not combinational
	d := rtlsim.NewDesign("t")
	a := d.Wire("a", 8)
	r := d.Register("q", 8)
	r.Feed(a)
	d.Comb("inc", []rtlsim.Pin{r.Q}, []rtlsim.Pin{a}, func(v *rtlsim.Values) {
		v.Set(a, v.Get(r.Q)+1)
	})

	_, err := rtlsim.Compile(d)
	require.NoError(t, err)
}

func TestCompileDriveInputRejected(t *testing.T) {
	d := rtlsim.NewDesign("t")
	a := d.Input("a", 4)
	b := d.Input("b", 4)
	d.Connect(a, b)

	_, err := rtlsim.Compile(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input port")
}

func TestCompileBlockWritesOwnInput(t *testing.T) {
	d := rtlsim.NewDesign("t")
	x := d.Wire("x", 4)
	d.Comb("self", []rtlsim.Pin{x.Slice(0, 2)}, []rtlsim.Pin{x.Slice(1, 3)}, passThrough(x.Slice(1, 3)))

	_, err := rtlsim.Compile(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writes its own input")
}

func TestCompileDuplicateSignalName(t *testing.T) {
	d := rtlsim.NewDesign("t")
	d.Input("a", 1)
	d.Wire("a", 2)

	_, err := rtlsim.Compile(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")
}

func TestCompileBadWidth(t *testing.T) {
	d := rtlsim.NewDesign("t")
	d.Input("a", 65)
	_, err := rtlsim.Compile(d)
	require.Error(t, err)

	d = rtlsim.NewDesign("t")
	d.Input("a", 0)
	_, err = rtlsim.Compile(d)
	require.Error(t, err)
}

func TestCompileTieTooWide(t *testing.T) {
	d := rtlsim.NewDesign("t")
	x := d.Wire("x", 8)
	d.Tie(0x1ff, x)

	_, err := rtlsim.Compile(d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit")
}
