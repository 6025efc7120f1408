// Package trace records per-step snapshots of a simulation. Each step
// becomes one msgpack-encoded row with the settled value of every
// signal; unknown signals are listed separately so a consumer never
// mistakes them for zero. Rendering the stream into a waveform format
// is the consumer's business.
package trace

import (
	"io"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/rtlgo/rtlsim"
)

// A Row is the encoded form of one simulation step.
type Row struct {
	Step    uint64            `msgpack:"step"`
	Values  map[string]uint64 `msgpack:"values"`
	Unknown []string          `msgpack:"unknown,omitempty"`
}

// A Recorder encodes one Row per step to an underlying writer.
type Recorder struct {
	enc *msgpack.Encoder
	err error
}

// NewRecorder returns a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: msgpack.NewEncoder(w)}
}

// Hook returns the per-step hook to register with Simulator.OnStep.
func (r *Recorder) Hook() func(rtlsim.Snapshot) {
	return func(s rtlsim.Snapshot) {
		if r.err != nil {
			return
		}
		row := Row{Step: s.Step, Values: make(map[string]uint64, len(s.Values))}
		for name, v := range s.Values {
			if !v.Known {
				row.Unknown = append(row.Unknown, name)
				continue
			}
			row.Values[name] = v.Bits
		}
		sort.Strings(row.Unknown)
		r.err = r.enc.Encode(&row)
	}
}

// Err returns the first encoding error, if any.
func (r *Recorder) Err() error { return r.err }

// ReadAll decodes every row from an encoded stream, mostly for tests
// and tooling.
func ReadAll(rd io.Reader) ([]Row, error) {
	dec := msgpack.NewDecoder(rd)
	var rows []Row
	for {
		var row Row
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return rows, nil
			}
			return rows, err
		}
		rows = append(rows, row)
	}
}
