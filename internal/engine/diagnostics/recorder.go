package diagnostics

import (
	"sync"

	"github.com/infracollect/filecompressor/internal/engine"
)

// Recorder keeps every emitted event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []engine.Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(event engine.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events in emission order.
func (r *Recorder) Events() []engine.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]engine.Event, len(r.events))
	copy(out, r.events)
	return out
}
