package main

import (
	"os"
	"runtime/pprof"

	"github.com/lumipallolabs/reporter/internal/cli"
	"github.com/lumipallolabs/reporter/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Enable CPU profiling if CPUPROFILE env var is set
	if cpuProfile := os.Getenv("CPUPROFILE"); cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			logging.Log.Error().Err(err).Msg("could not create CPU profile")
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logging.Log.Error().Err(err).Msg("could not start CPU profile")
			return 1
		}
		defer pprof.StopCPUProfile()
		logging.Log.Info().Str("path", cpuProfile).Msg("CPU profiling enabled")
	}

	if err := cli.Execute(); err != nil {
		logging.Log.Error().Err(err).Msg("reporter failed")
		return 1
	}
	return 0
}
