// SPDX-License-Identifier: MIT

// Package report accumulates per-file pitch-shift results and persists
// them as a spreadsheet.
package report

// Record is one row of the batch report: the source and shifted file
// names, the waveform's shape, the drawn target, and the pre- and
// post-shift frequency statistics. Records are immutable once built.
type Record struct {
	SourceFile  string
	ShiftedFile string
	Length      float64 // seconds
	SampleRate  int
	TargetFreq  int

	SourceMedian  float64
	ShiftedMedian float64
	SemitoneDiff  float64

	SourceMin  float64
	ShiftedMin float64
	SourceMax  float64
	ShiftedMax float64

	SourceMean  float64
	ShiftedMean float64
}

// Table is an ordered collection of records with value semantics: Append
// returns a new table and never mutates the receiver, so a table handed to
// another goroutine stays stable.
type Table struct {
	records []Record
}

// Append returns a new table with r added at the end.
func (t Table) Append(r Record) Table {
	records := make([]Record, len(t.records)+1)
	copy(records, t.records)
	records[len(t.records)] = r
	return Table{records: records}
}

// Len returns the number of records.
func (t Table) Len() int {
	return len(t.records)
}

// Records returns a copy of the table's rows in insertion order.
func (t Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}
