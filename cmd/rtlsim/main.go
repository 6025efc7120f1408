// Command rtlsim runs test-vector bench files against built-in
// designs. A bench file is a TOML document naming a design and listing
// input/expected-output vectors; see bench.go for the format.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "rtlsim",
		Short:        "cycle-level circuit simulation bench runner",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("trace-dir", "", "directory for per-bench msgpack traces")
	viper.SetEnvPrefix("RTLSIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(root.PersistentFlags()); err != nil {
		panic(err)
	}
	root.AddCommand(runCmd(), versionCmd())
	return root
}

func newLogger() (log.Logger, error) {
	lvl, err := log.LvlFromString(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}
	l := log.New()
	l.SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))
	return l, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <bench.toml>...",
		Short: "run bench files against their designs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			traceDir := viper.GetString("trace-dir")

			// one instance per bench; a compiled model is shareable but
			// every run owns its storage
			results := make([]error, len(args))
			var g errgroup.Group
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					results[i] = runBench(path, traceDir, logger.New("bench", path))
					return nil
				})
			}
			_ = g.Wait()

			failed := 0
			for i, path := range args {
				if results[i] != nil {
					failed++
					fmt.Printf("%s %s: %v\n", color.RedString("FAIL"), path, results[i])
				} else {
					fmt.Printf("%s %s\n", color.GreenString("PASS"), path)
				}
			}
			if failed > 0 {
				return errors.Errorf("%d of %d benches failed", failed, len(args))
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the rtlsim version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("rtlsim", version)
		},
	}
}
