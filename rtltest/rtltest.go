// Package rtltest runs table-form test vectors against a simulator.
//
// A vector table is a header string naming one column per signal and
// one row of values per simulation step. Columns suffixed with '*' are
// expected outputs, checked after combinational settling and before
// the clock edge; the other columns are applied as inputs. The X value
// marks a don't-care entry in an output column.
package rtltest

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/rtlgo/rtlsim"
)

// X marks a don't-care expected value in an output column.
const X int64 = -1

type column struct {
	name   string
	expect bool
}

func parseHeader(header string) []column {
	fields := strings.Fields(header)
	cols := make([]column, len(fields))
	for i, f := range fields {
		if strings.HasSuffix(f, "*") {
			cols[i] = column{name: strings.TrimSuffix(f, "*"), expect: true}
		} else {
			cols[i] = column{name: f}
		}
	}
	return cols
}

// Run drives sim with the vector table and fails the test at the first
// mismatching vector, reporting its index, the field name and the
// expected and actual values.
func Run(t *testing.T, sim *rtlsim.Simulator, header string, vectors [][]int64) {
	t.Helper()
	if err := RunVectors(sim, header, vectors); err != nil {
		t.Fatal(err)
	}
}

// RunVectors is Run without the testing dependency. It returns a
// *rtlsim.VectorError wrapping the first failure.
func RunVectors(sim *rtlsim.Simulator, header string, vectors [][]int64) error {
	cols := parseHeader(header)
	for _, vec := range vectors {
		if len(vec) != len(cols) {
			return errors.Errorf("vector width %d does not match header %q", len(vec), header)
		}
	}

	apply := func(s *rtlsim.Simulator, i int) error {
		for c, col := range cols {
			if col.expect {
				continue
			}
			if vectors[i][c] < 0 {
				return errors.Errorf("input %s: negative value %d", col.name, vectors[i][c])
			}
			if err := s.Poke(col.name, uint64(vectors[i][c])); err != nil {
				return err
			}
		}
		return nil
	}
	check := func(s *rtlsim.Simulator, i int) error {
		for c, col := range cols {
			if !col.expect || vectors[i][c] == X {
				continue
			}
			got, err := s.Peek(col.name)
			if err != nil {
				return err
			}
			if !got.Known {
				return errors.Errorf("%s: expected %#x, got unresolved value", col.name, vectors[i][c])
			}
			if got.Bits != uint64(vectors[i][c]) {
				return errors.Errorf("%s: expected %#x, got %#x", col.name, vectors[i][c], got.Bits)
			}
		}
		return nil
	}
	return sim.RunVectors(len(vectors), apply, check)
}
