// SPDX-License-Identifier: MIT
package main

import (
	"fmt"

	"pitchbatch/cmd"
	"pitchbatch/internal/analysis"
	"pitchbatch/internal/audio"
	"pitchbatch/internal/batch"
	"pitchbatch/internal/config"
	"pitchbatch/internal/log"
	"pitchbatch/internal/transport"
	"pitchbatch/internal/wave"
	"pitchbatch/pkg/build"
)

// main runs in three phases:
//
// 1. Startup: build info, argument parsing, log level, one-off commands.
// 2. Batch: the runner processes every file and assembles the report.
// 3. Shutdown: the progress transport (if any) is closed and the summary
//    logged.
func main() {
	build.Initialize()

	cfg, err := cmd.ParseArgs()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if level, ok := log.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	}
	if cfg.Verbose {
		log.SetLevel(log.LevelDebug)
	}

	switch cfg.Command {
	case "probe":
		if err := runProbe(cfg); err != nil {
			log.Fatalf("%v", err)
		}
		return
	case "play":
		if err := runPlay(cfg); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	log.Infof("audio files will be read from %s", cfg.SourceDir)
	log.Infof("pitch shifted files and the report will be written to %s", cfg.DestDir)
	log.Infof("report will be named %s.xlsx", cfg.ReportName)

	runner, err := batch.NewRunner(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if cfg.ProgressAddr != "" {
		t := transport.NewWebSocketTransport(cfg.ProgressAddr)
		defer t.Close()
		runner.SetProgress(t)
	}

	table, err := runner.Run()
	if err != nil {
		log.Fatalf("%v", err)
	}

	log.Infof("batch complete: %d files processed", table.Len())
}

// runProbe analyzes a single file and prints its frequency profile.
func runProbe(cfg *config.Config) error {
	buf, err := wave.Load(cfg.CommandArg)
	if err != nil {
		return err
	}

	tracker, err := analysis.NewTracker(analysis.DefaultFrameSize)
	if err != nil {
		return err
	}
	profile, err := tracker.Analyze(buf, cfg.StepMS)
	if err != nil {
		return err
	}

	fmt.Printf("file:        %s\n", cfg.CommandArg)
	fmt.Printf("duration:    %.3f s\n", buf.Duration())
	fmt.Printf("sample rate: %d Hz\n", buf.SampleRate)
	fmt.Printf("channels:    %d\n", buf.Channels)
	fmt.Printf("median:      %.2f Hz\n", profile.Median)
	fmt.Printf("mean:        %.2f Hz\n", profile.Mean)
	fmt.Printf("min:         %.2f Hz\n", profile.Min)
	fmt.Printf("max:         %.2f Hz\n", profile.Max)
	return nil
}

// runPlay streams a file to the default output device.
func runPlay(cfg *config.Config) error {
	buf, err := wave.Load(cfg.CommandArg)
	if err != nil {
		return err
	}

	if err := audio.Initialize(); err != nil {
		return err
	}
	defer audio.Terminate()

	log.Infof("playing %s (%.2f s)", cfg.CommandArg, buf.Duration())
	return audio.Play(buf)
}
