// SPDX-License-Identifier: MIT

// Package batch drives the per-file pitch-shift pipeline over a source
// directory and assembles the run report.
package batch

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pitchbatch/internal/analysis"
	"pitchbatch/internal/config"
	"pitchbatch/internal/dsp"
	"pitchbatch/internal/log"
	"pitchbatch/internal/report"
	"pitchbatch/internal/transport"
	"pitchbatch/internal/wave"
)

// Runner executes one batch run. Construct with NewRunner; both directories
// are validated up front so a bad invocation fails before any file work.
type Runner struct {
	cfg      *config.Config
	tracker  *analysis.Tracker
	selector *Selector
	progress transport.Transport
}

// NewRunner validates the configured directories and prepares the pipeline.
func NewRunner(cfg *config.Config) (*Runner, error) {
	if err := mustBeDir(cfg.SourceDir); err != nil {
		return nil, err
	}
	if err := mustBeDir(cfg.DestDir); err != nil {
		return nil, err
	}

	tracker, err := analysis.NewTracker(analysis.DefaultFrameSize)
	if err != nil {
		return nil, err
	}

	var src rand.Source
	if cfg.Seed != 0 {
		src = rand.NewSource(cfg.Seed)
	}

	return &Runner{
		cfg:      cfg,
		tracker:  tracker,
		selector: NewSelector(src),
	}, nil
}

// SetProgress attaches a transport that receives each completed record.
func (r *Runner) SetProgress(t transport.Transport) {
	r.progress = t
}

// Run processes every recognized file in the source directory, writes the
// shifted waveforms and the spreadsheet report to the destination
// directory, and returns the report table. Per-file failures are logged
// and skipped; only report persistence can fail the run as a whole.
func (r *Runner) Run() (report.Table, error) {
	entries, err := os.ReadDir(r.cfg.SourceDir)
	if err != nil {
		return report.Table{}, fmt.Errorf("list %s: %w", r.cfg.SourceDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), wave.Ext) {
			continue
		}
		names = append(names, e.Name())
	}
	log.Infof("found %d audio files in %s", len(names), r.cfg.SourceDir)

	// Records land in listing-order slots regardless of completion order,
	// so the table below never sees concurrent appends.
	results := make([]*report.Record, len(names))

	if r.cfg.Workers <= 1 {
		for i, name := range names {
			results[i] = r.processOne(r.tracker, name)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < r.cfg.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// Trackers hold scratch buffers, one per worker.
				tracker, err := analysis.NewTracker(analysis.DefaultFrameSize)
				if err != nil {
					log.Errorf("worker tracker init: %v", err)
					return
				}
				for i := range jobs {
					results[i] = r.processOne(tracker, names[i])
				}
			}()
		}
		for i := range names {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	var table report.Table
	for _, rec := range results {
		if rec != nil {
			table = table.Append(*rec)
		}
	}

	reportPath := filepath.Join(r.cfg.DestDir, r.cfg.ReportName+".xlsx")
	if err := report.WriteXLSX(table, reportPath); err != nil {
		return table, fmt.Errorf("write report: %w", err)
	}
	log.Infof("report written to %s (%d rows)", reportPath, table.Len())

	return table, nil
}

// processOne runs the full pipeline for a single file, converting any
// failure into a logged skip.
func (r *Runner) processOne(tracker *analysis.Tracker, name string) *report.Record {
	rec, err := r.processFile(tracker, name)
	if err != nil {
		log.Warnf("skipping %s: %v", name, err)
		return nil
	}
	if r.progress != nil {
		if err := r.progress.Send(rec); err != nil {
			log.Debugf("progress send: %v", err)
		}
	}
	return &rec
}

func (r *Runner) processFile(tracker *analysis.Tracker, name string) (report.Record, error) {
	log.Infof("now shifting %s", name)

	buf, err := wave.Load(filepath.Join(r.cfg.SourceDir, name))
	if err != nil {
		return report.Record{}, err
	}

	sourceProfile, err := tracker.Analyze(buf, r.cfg.StepMS)
	if err != nil {
		return report.Record{}, fmt.Errorf("analyze: %w", err)
	}

	target, semitones, err := r.selector.Pick(sourceProfile.Median)
	if err != nil {
		return report.Record{}, err
	}

	shifted, err := dsp.Chain(buf, semitones)
	if err != nil {
		return report.Record{}, fmt.Errorf("transform: %w", err)
	}

	outName := ShiftedName(name, semitones)
	if err := wave.Store(filepath.Join(r.cfg.DestDir, outName), shifted); err != nil {
		return report.Record{}, err
	}

	shiftedProfile, err := tracker.Analyze(shifted, r.cfg.StepMS)
	if err != nil {
		return report.Record{}, fmt.Errorf("analyze shifted: %w", err)
	}

	log.Infof("completed %s", name)

	return report.Record{
		SourceFile:    name,
		ShiftedFile:   outName,
		Length:        buf.Duration(),
		SampleRate:    buf.SampleRate,
		TargetFreq:    target,
		SourceMedian:  sourceProfile.Median,
		ShiftedMedian: shiftedProfile.Median,
		SemitoneDiff:  semitones,
		SourceMin:     sourceProfile.Min,
		ShiftedMin:    shiftedProfile.Min,
		SourceMax:     sourceProfile.Max,
		ShiftedMax:    shiftedProfile.Max,
		SourceMean:    sourceProfile.Mean,
		ShiftedMean:   shiftedProfile.Mean,
	}, nil
}

// ShiftedName derives the output filename: the source stem plus "_ps", or
// "_pse" when the shift exceeds one octave in magnitude.
func ShiftedName(name string, semitones float64) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if Extreme(semitones) {
		return stem + "_pse" + ext
	}
	return stem + "_ps" + ext
}

func mustBeDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a valid directory", path)
	}
	return nil
}
