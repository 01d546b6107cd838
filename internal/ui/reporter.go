package ui

import (
	"io"
	"sync"
)

// Reporter shows the progress of a multi step operation. Each step runs
// under a spinner that is replaced by a result line when the step ends.
type Reporter struct {
	mu      sync.Mutex
	w       io.Writer
	current *SmartSpinner
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

func (r *Reporter) Start(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.UpdateMessage(msg)
		return
	}
	r.current = NewSmartSpinner(r.w, msg)
	r.current.Start()
}

func (r *Reporter) Success(msg string) {
	r.finish(func(s *SmartSpinner) { s.Success(msg) }, PrintSuccess, msg)
}

func (r *Reporter) Warning(msg string) {
	r.finish(func(s *SmartSpinner) { s.Warning(msg) }, PrintWarning, msg)
}

func (r *Reporter) Failure(msg string) {
	r.finish(func(s *SmartSpinner) { s.Error(msg) }, PrintError, msg)
}

func (r *Reporter) Info(msg string) {
	r.finish(func(s *SmartSpinner) {
		s.Stop()
		PrintInfo(r.w, msg)
	}, PrintInfo, msg)
}

// Stop clears a running spinner without printing anything.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Stop()
		r.current = nil
	}
}

func (r *Reporter) finish(withSpinner func(*SmartSpinner), plain func(io.Writer, string), msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		plain(r.w, msg)
		return
	}
	withSpinner(r.current)
	r.current = nil
}
