package importer

// Observer is told about progress as a run goes.  All calls come from the goroutine driving the
// run.
type Observer interface {
	RunStarted(files int)
	// steps is how many StepCompleted calls to expect if the file goes all the way.
	FileStarted(file string, steps int)
	StepCompleted(file string, stage Stage)
	TableStarted(file string, ordinal int, records int)
	RecordCreated(file string, ordinal int)
	FileDone(outcome FileOutcome)
}

// NopObserver ignores everything.  Embed it to implement only part of Observer.
type NopObserver struct{}

func (NopObserver) RunStarted(int) {}
func (NopObserver) FileStarted(string, int) {}
func (NopObserver) StepCompleted(string, Stage) {}
func (NopObserver) TableStarted(string, int, int) {}
func (NopObserver) RecordCreated(string, int) {}
func (NopObserver) FileDone(FileOutcome) {}
