// SPDX-License-Identifier: EPL-2.0

// Command oplplay inspects, renders, plays and scripts OPL music modules.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ik5/oplpbx"
	"github.com/ik5/oplpbx/database"
	"github.com/ik5/oplpbx/playback"
)

// dbEnv names the environment variable holding the database path.
const dbEnv = "OPLPLAY_DB"

var (
	Version = "dev"

	config struct {
		rate     int
		subsong  int
		db       string
		logLevel string
		max      time.Duration
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "oplplay"})
	db     *database.Database
)

var rootCmd = &cobra.Command{
	Use:   "oplplay",
	Short: "Play AdPlug-style OPL music modules",
	Long: `oplplay loads IMF, DRO, RAW and VGM modules, renders them through an
emulated OPL2 chip pair and plays, exports or compares the result.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&config.rate, "rate", "r", oplpbx.DefaultSampleRate,
		"Output sample rate in Hz")
	rootCmd.PersistentFlags().IntVarP(&config.subsong, "subsong", "s", 0,
		"Subsong to select")
	rootCmd.PersistentFlags().StringVar(&config.db, "db", "",
		"Module database file (default $"+dbEnv+", then "+database.DefaultFile+")")
	rootCmd.PersistentFlags().StringVarP(&config.logLevel, "log-level", "l", "info",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().DurationVar(&config.max, "max", 0,
		"Stop after this much audio (0 renders until the song ends, at most 10m)")

	rootCmd.AddCommand(infoCmd, renderCmd, playCmd, scriptCmd, compareCmd, dbCmd)
}

func setup(*cobra.Command, []string) error {
	lvl, err := log.ParseLevel(config.logLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger.SetLevel(lvl)

	if config.rate <= 0 {
		return fmt.Errorf("--rate: %w: %d", playback.ErrInvalidSampleRate, config.rate)
	}

	db = loadDatabase(databasePath(config.db, os.Getenv(dbEnv)))
	return nil
}

// databasePath picks the flag, then the environment, then the default.
func databasePath(flag, env string) string {
	switch {
	case flag != "":
		return flag
	case env != "":
		return env
	default:
		return database.DefaultFile
	}
}

// loadDatabase never fails: a missing or broken database only loses the
// per-module corrections.
func loadDatabase(path string) *database.Database {
	d, err := database.LoadFile(path)
	switch {
	case err == nil:
		logger.Debug("database loaded", "path", path, "records", d.Len())
		return d
	case errors.Is(err, os.ErrNotExist):
		logger.Debug("no database", "path", path)
	default:
		logger.Warn("database ignored", "path", path, "err", err)
	}
	return database.New()
}

func playbackOptions() playback.Options {
	return playback.Options{
		Logger:   logger,
		Database: func() *database.Database { return db },
	}
}

func renderOptions() oplpbx.RenderOptions {
	return oplpbx.RenderOptions{
		Subsong:    config.subsong,
		SampleRate: config.rate,
		LimitMs:    int(config.max.Milliseconds()),
		Playback:   playbackOptions(),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
