package main

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/rtlgo/rtlsim"
	"github.com/rtlgo/rtlsim/trace"
)

// A bench binds a named design to a vector table:
//
//	design = "regfile"
//
//	[[vectors]]
//	in  = { "rf.rd_addr0" = 2, "rf.wr_en" = 1, "rf.wr_addr" = 2, "rf.wr_data" = 5 }
//	out = { "rf.rd_data0" = 0 }
//
// A negative expected value marks a don't-care field.
type bench struct {
	Design  string        `toml:"design"`
	Vectors []benchVector `toml:"vectors"`
}

type benchVector struct {
	In  map[string]int64 `toml:"in"`
	Out map[string]int64 `toml:"out"`
}

func loadBench(path string) (*bench, error) {
	var b bench
	if _, err := toml.DecodeFile(path, &b); err != nil {
		return nil, errors.Wrap(err, "decode bench")
	}
	if b.Design == "" {
		return nil, errors.New("bench file names no design")
	}
	return &b, nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runBench(path, traceDir string, logger log.Logger) error {
	b, err := loadBench(path)
	if err != nil {
		return err
	}
	build := designs[b.Design]
	if build == nil {
		return errors.Errorf("unknown design %q", b.Design)
	}
	model, err := build()
	if err != nil {
		return errors.Wrapf(err, "compile design %q", b.Design)
	}

	sim := rtlsim.New(model)
	sim.SetLogger(logger)

	var rec *trace.Recorder
	if traceDir != "" {
		f, err := os.Create(filepath.Join(traceDir, filepath.Base(path)+".trace"))
		if err != nil {
			return err
		}
		defer f.Close()
		rec = trace.NewRecorder(f)
		sim.OnStep(rec.Hook())
	}

	apply := func(s *rtlsim.Simulator, i int) error {
		for _, name := range sortedKeys(b.Vectors[i].In) {
			v := b.Vectors[i].In[name]
			if v < 0 {
				return errors.Errorf("input %s: negative value %d", name, v)
			}
			if err := s.Poke(name, uint64(v)); err != nil {
				return err
			}
		}
		return nil
	}
	check := func(s *rtlsim.Simulator, i int) error {
		for _, name := range sortedKeys(b.Vectors[i].Out) {
			want := b.Vectors[i].Out[name]
			if want < 0 {
				continue
			}
			got, err := s.Peek(name)
			if err != nil {
				return err
			}
			if !got.Known {
				return errors.Errorf("%s: expected %#x, got unresolved value", name, want)
			}
			if got.Bits != uint64(want) {
				return errors.Errorf("%s: expected %#x, got %#x", name, want, got.Bits)
			}
		}
		return nil
	}
	if err := sim.RunVectors(len(b.Vectors), apply, check); err != nil {
		return err
	}
	logger.Info("bench passed", "design", b.Design, "vectors", len(b.Vectors))
	if rec != nil {
		return rec.Err()
	}
	return nil
}
