package rtlsim

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// A PortDecl is one entry of a parsed port declaration list.
type PortDecl struct {
	Name  string
	Width int
}

// IO parses a port declaration list and returns the declared names and
// widths. A declaration is a comma separated list of names with an
// optional width suffix; a bare name declares a 1-bit signal.
// For example:
//
//	IO("a, b[4], sel")  // a:1, b:4, sel:1
//
func IO(spec string) ([]PortDecl, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var out []PortDecl
	pos := 0
	for _, f := range strings.Split(spec, ",") {
		fieldPos := pos
		pos += len(f) + 1
		name := strings.TrimSpace(f)
		if name == "" {
			return nil, parseError(spec, fieldPos, "empty declaration")
		}
		width := 1
		if i := strings.IndexRune(name, '['); i >= 0 {
			if !strings.HasSuffix(name, "]") {
				return nil, parseError(spec, fieldPos, "missing close bracket")
			}
			w, err := strconv.Atoi(name[i+1 : len(name)-1])
			if err != nil {
				return nil, parseError(spec, fieldPos, "invalid width")
			}
			name, width = name[:i], w
		}
		for _, r := range name {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
				return nil, parseError(spec, fieldPos, "invalid name "+strconv.Quote(name))
			}
		}
		out = append(out, PortDecl{Name: name, Width: width})
	}
	return out, nil
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}

func (d *Design) declare(spec string, kind SignalKind) []*Signal {
	decls, err := IO(spec)
	if err != nil {
		d.fail(err)
		return nil
	}
	sigs := make([]*Signal, len(decls))
	for i, dc := range decls {
		sigs[i] = d.newSignal(dc.Name, dc.Width, kind)
	}
	return sigs
}

// Inputs declares input ports from a port declaration list.
// See IO for the syntax.
func (d *Design) Inputs(spec string) []*Signal { return d.declare(spec, Input) }

// Outputs declares output ports from a port declaration list.
func (d *Design) Outputs(spec string) []*Signal { return d.declare(spec, Output) }

// Wires declares internal signals from a port declaration list.
func (d *Design) Wires(spec string) []*Signal { return d.declare(spec, Internal) }
