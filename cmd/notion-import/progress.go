package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/toothbrush/notion-import/importer"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// barsObserver draws one bar for the whole run, plus one per file (and per table) while it's in
// progress.
type barsObserver struct {
	progress *mpb.Progress
	files    *mpb.Bar
	current  *mpb.Bar
	table    *mpb.Bar
}

func newBarsObserver(out io.Writer) *barsObserver {
	return &barsObserver{
		progress: mpb.New(mpb.WithWidth(64), mpb.WithOutput(out)),
	}
}

func (o *barsObserver) RunStarted(files int) {
	o.files = o.progress.AddBar(int64(files),
		mpb.PrependDecorators(
			// display our name with one space on the right
			decor.Name("files:", decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d) "),
			decor.NewPercentage("%d"),
		),
	)
}

func (o *barsObserver) FileStarted(file string, steps int) {
	o.current = o.progress.AddBar(int64(steps),
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(
			decor.Name(file, decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.Spinner([]string{" /", " -", " \\", " |"}),
		),
	)
}

func (o *barsObserver) StepCompleted(string, importer.Stage) {
	if o.current != nil {
		o.current.Increment()
	}
}

func (o *barsObserver) TableStarted(_ string, ordinal int, records int) {
	o.finishTable()
	o.table = o.progress.AddBar(int64(records),
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("  database %d:", ordinal), decor.WC{C: decor.DindentRight | decor.DextraSpace}),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d/%d)"),
		),
	)
}

func (o *barsObserver) RecordCreated(string, int) {
	if o.table != nil {
		o.table.Increment()
	}
}

func (o *barsObserver) FileDone(importer.FileOutcome) {
	o.finishTable()
	if o.current != nil {
		// skipped and failed files never reach their total
		o.current.SetTotal(-1, true)
		o.current = nil
	}
	if o.files != nil {
		o.files.Increment()
	}
}

func (o *barsObserver) finishTable() {
	if o.table != nil {
		o.table.SetTotal(-1, true)
		o.table = nil
	}
}

// Wait flushes the bars; call it once the run is over.
func (o *barsObserver) Wait() {
	if o.files != nil && !o.files.Completed() {
		// interrupted runs
		o.files.SetTotal(-1, true)
	}
	o.progress.Wait()
}

// logObserver replaces the bars under --debug, where they'd get mixed up with log lines.
type logObserver struct {
	Logger *log.Logger
	files  int
	done   int
}

func (o *logObserver) RunStarted(files int) {
	o.files = files
	o.Logger.Info("importing", "files", files)
}

func (o *logObserver) FileStarted(file string, steps int) {
	o.Logger.Debug("file started", "file", file, "steps", steps)
}

func (o *logObserver) StepCompleted(file string, stage importer.Stage) {
	o.Logger.Debug("step completed", "file", file, "stage", stage)
}

func (o *logObserver) TableStarted(file string, ordinal int, records int) {
	o.Logger.Debug("creating database", "file", file, "database", ordinal, "records", records)
}

func (o *logObserver) RecordCreated(file string, ordinal int) {}

func (o *logObserver) FileDone(outcome importer.FileOutcome) {
	o.done++
	o.Logger.Info(fmt.Sprintf("(%d/%d) %s", o.done, o.files, outcome.File), "status", outcome.Status, "stage", outcome.Stage)
}

func (o *logObserver) Wait() {}

// progressObserver is an importer.Observer that needs flushing at the end of a run.
type progressObserver interface {
	importer.Observer
	Wait()
}

func newProgressObserver(debug bool, logger *log.Logger, out io.Writer) progressObserver {
	if debug {
		return &logObserver{Logger: logger}
	}
	return newBarsObserver(out)
}
