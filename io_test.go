package rtlsim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtlgo/rtlsim"
)

func TestIO(t *testing.T) {
	tests := []struct {
		spec string
		out  []rtlsim.PortDecl
		err  string
	}{
		{spec: "", out: nil},
		{spec: "a", out: []rtlsim.PortDecl{{Name: "a", Width: 1}}},
		{spec: "a, b[4], sel", out: []rtlsim.PortDecl{
			{Name: "a", Width: 1}, {Name: "b", Width: 4}, {Name: "sel", Width: 1},
		}},
		{spec: " rf.rd_data0[16] ", out: []rtlsim.PortDecl{{Name: "rf.rd_data0", Width: 16}}},
		{spec: "a,,b", err: `in "a,,b" at pos 3: empty declaration`},
		{spec: "a[4", err: `in "a[4" at pos 1: missing close bracket`},
		{spec: "a[x]", err: `in "a[x]" at pos 1: invalid width`},
		{spec: "a, b-c", err: `in "a, b-c" at pos 3: invalid name "b-c"`},
	}
	for _, test := range tests {
		got, err := rtlsim.IO(test.spec)
		if test.err != "" {
			require.Error(t, err, "spec %q", test.spec)
			assert.Equal(t, test.err, err.Error(), "spec %q", test.spec)
			continue
		}
		require.NoError(t, err, "spec %q", test.spec)
		assert.Equal(t, test.out, got, "spec %q", test.spec)
	}
}

func TestDeclarationLists(t *testing.T) {
	d := rtlsim.NewDesign("decl")
	in := d.Inputs("a, b[8]")
	out := d.Outputs("y[8]")
	require.Len(t, in, 2)
	require.Len(t, out, 1)
	assert.Equal(t, 1, in[0].Width())
	assert.Equal(t, 8, in[1].Width())

	d.Comb("pass", []rtlsim.Pin{in[1]}, []rtlsim.Pin{out[0]}, func(v *rtlsim.Values) {
		v.Set(out[0], v.Get(in[1]))
	})
	_, err := rtlsim.Compile(d)
	assert.NoError(t, err)
}

func TestDeclarationErrorSurfacesAtCompile(t *testing.T) {
	d := rtlsim.NewDesign("decl")
	d.Inputs("a[")
	_, err := rtlsim.Compile(d)
	assert.Error(t, err)
}
