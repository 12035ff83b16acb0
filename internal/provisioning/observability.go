package provisioning

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"
)

// Logger is the minimal printf-style logging surface.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "ca", "certs")
	Message   string            // Human-readable message
	Resource  string            // Resource path or key if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
	Err       error             // Set on failure events
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreating indicates a resource is being created.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource was created successfully.
	EventResourceCreated EventType = "resource.created"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log    logr.Logger
	fields map[string]string
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{
		log:    log,
		fields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...interface{}) {
	o.log.Info(fmt.Sprintf(format, v...), o.keysAndValues(nil)...)
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []interface{}{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	kv = o.keysAndValues(event.Fields, kv...)

	if event.Type == EventPhaseFailed {
		o.log.Error(event.Err, event.Message, kv...)
		return
	}
	if event.Type == EventProgress {
		o.log.V(1).Info(event.Message, kv...)
		return
	}
	o.log.Info(event.Message, kv...)
}

// Progress implements Observer.
func (o *LogObserver) Progress(phase string, current, total int) {
	msg := fmt.Sprintf("%d/%d", current, total)
	if total > 0 {
		msg = fmt.Sprintf("%d/%d (%d%%)", current, total, (current*100)/total)
	}
	o.Event(Event{Type: EventProgress, Phase: phase, Message: msg})
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.fields)+len(fields))
	for k, v := range o.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &LogObserver{log: o.log, fields: newFields}
}

// keysAndValues merges context fields under event fields, sorted by key so
// log lines are stable.
func (o *LogObserver) keysAndValues(eventFields map[string]string, kv ...interface{}) []interface{} {
	merged := make(map[string]string, len(o.fields)+len(eventFields))
	for k, v := range o.fields {
		merged[k] = v
	}
	for k, v := range eventFields {
		merged[k] = v
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, merged[k])
	}
	return kv
}

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: "failed",
		Err:     err,
	})
}

// LogResourceCreating logs a resource creation start event.
func LogResourceCreating(observer Observer, phase, resourceType, resource string) {
	observer.Event(Event{
		Type:     EventResourceCreating,
		Phase:    phase,
		Resource: resource,
		Message:  fmt.Sprintf("creating %s", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, phase, resourceType, resource string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: resource,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields: map[string]string{
			"type": resourceType,
		},
	})
}
