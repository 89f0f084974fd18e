package engine

// Severity of a diagnostic event.
type Severity string

const (
	SeverityDebug   Severity = "debug"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is a structured diagnostic emitted while building an archive.
type Event struct {
	Severity Severity
	Message  string
	Context  map[string]string
}

// Diagnostics receives events from compressors.
type Diagnostics interface {
	Emit(event Event)
}

// DiagnosticsFunc adapts a plain function to Diagnostics.
type DiagnosticsFunc func(Event)

func (f DiagnosticsFunc) Emit(event Event) {
	f(event)
}

// NopDiagnostics discards every event.
var NopDiagnostics Diagnostics = DiagnosticsFunc(func(Event) {})
