package main

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/inconshreveable/log15"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtlgo/rtlsim/trace"
)

func discard() log.Logger {
	l := log.New()
	l.SetHandler(log.DiscardHandler())
	return l
}

func writeBench(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const aluBench = `
design = "alu"

[[vectors]]
in  = { a = 3, b = 5, op = 0 }
out = { out = 8 }

[[vectors]]
in  = { op = 1 }
out = { out = 1 }

[[vectors]]
in  = { op = 3 }
out = { out = 6 }
`

func TestLoadBench(t *testing.T) {
	b, err := loadBench(writeBench(t, aluBench))
	require.NoError(t, err)
	assert.Equal(t, "alu", b.Design)
	require.Len(t, b.Vectors, 3)
	assert.Equal(t, map[string]int64{"a": 3, "b": 5, "op": 0}, b.Vectors[0].In)
	assert.Equal(t, map[string]int64{"out": 8}, b.Vectors[0].Out)
}

func TestLoadBenchNoDesign(t *testing.T) {
	_, err := loadBench(writeBench(t, `[[vectors]]`))
	assert.Error(t, err)
}

func TestRunBenchPass(t *testing.T) {
	assert.NoError(t, runBench(writeBench(t, aluBench), "", discard()))
}

func TestRunBenchMismatch(t *testing.T) {
	err := runBench(writeBench(t, `
design = "alu"

[[vectors]]
in  = { a = 1, b = 1, op = 0 }
out = { out = 3 }
`), "", discard())
	assert.Error(t, err)
}

func TestRunBenchUnknownDesign(t *testing.T) {
	err := runBench(writeBench(t, `design = "nope"`), "", discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown design "nope"`)
}

func TestRunBenchTrace(t *testing.T) {
	dir := t.TempDir()
	path := writeBench(t, aluBench)
	require.NoError(t, runBench(path, dir, discard()))

	f, err := os.Open(filepath.Join(dir, filepath.Base(path)+".trace"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := trace.ReadAll(f)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, uint64(8), rows[0].Values["out"])
	assert.Equal(t, uint64(1), rows[1].Values["out"])
}

func TestBuiltinDesignsCompile(t *testing.T) {
	for name, build := range designs {
		m, err := build()
		require.NoError(t, err, name)
		assert.Equal(t, name, m.Name())
	}
}
