package des

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Event type identifiers for the diagnostic CloudEvents this package emits.
// Consumers filter on these rather than parsing message text.
const (
	EventTypeMessageDropped   = "io.des.message.dropped"
	EventTypeModuleLifecycle  = "io.des.module.lifecycle"
	EventTypePanicRecovered   = "io.des.module.panic_recovered"
	EventTypeChannelUnbusy    = "io.des.channel.unbusy"
)

// DiagnosticSink publishes a CloudEvent somewhere — stdout, a message
// broker, a test spy. The core only ever constructs events and calls
// Publish; it never assumes a particular transport.
type DiagnosticSink interface {
	Publish(ctx context.Context, ev cloudevents.Event) error
}

// LoggingSink is the default DiagnosticSink: it renders the event through a
// Logger instead of forwarding it anywhere, so a simulation run has
// sensible console output with no embedder wiring required.
type LoggingSink struct {
	Logger Logger
}

// Publish implements DiagnosticSink.
func (s LoggingSink) Publish(_ context.Context, ev cloudevents.Event) error {
	s.Logger.Info("diagnostic", "type", ev.Type(), "id", ev.ID(), "data", string(ev.Data()))
	return nil
}

// Diagnostics is the CloudEvents-backed structured output for dropped
// messages, busy-channel drops, panics-as-restarts, and lifecycle
// transitions, rendered as `io.des.*` CloudEvents, independent of
// whatever Logger an embedder plugs in for human-readable output.
type Diagnostics struct {
	source string
	sink   DiagnosticSink
	logger Logger
}

// NewDiagnostics builds a Diagnostics sink. If sink is nil, events are
// rendered through logger via LoggingSink.
func NewDiagnostics(source string, sink DiagnosticSink, logger Logger) *Diagnostics {
	if sink == nil {
		sink = LoggingSink{Logger: logger}
	}
	return &Diagnostics{source: source, sink: sink, logger: logger}
}

// newCloudEvent builds a CloudEvent with the fixed required attributes,
// JSON data, and extensions carrying routing-friendly metadata.
func (d *Diagnostics) newCloudEvent(eventType string, data any, ext map[string]any) cloudevents.Event {
	ev := cloudevents.NewEvent()
	ev.SetID(uuid.NewString())
	ev.SetSource(d.source)
	ev.SetType(eventType)
	ev.SetTime(time.Now())
	ev.SetSpecVersion(cloudevents.VersionV1)
	if data != nil {
		_ = ev.SetData(cloudevents.ApplicationJSON, data)
	}
	for k, v := range ext {
		ev.SetExtension(k, v)
	}
	return ev
}

func (d *Diagnostics) emit(eventType string, data any, ext map[string]any) {
	ev := d.newCloudEvent(eventType, data, ext)
	if err := d.sink.Publish(context.Background(), ev); err != nil {
		d.logger.Warn("failed to publish diagnostic event", "type", eventType, "error", err)
	}
}

// MessageDropped reports a message dropped in transit (busy-Drop channel,
// shutdown module, exhausted gate-chain depth).
func (d *Diagnostics) MessageDropped(reason, gatePath string, messageID string, at SimTime) {
	d.emit(EventTypeMessageDropped, map[string]any{
		"reason":    reason,
		"gate":      gatePath,
		"messageId": messageID,
		"at":        at.String(),
	}, map[string]any{"reason": reason})
}

// ChannelUnbusy reports a channel transitioning Busy -> Idle.
func (d *Diagnostics) ChannelUnbusy(channelPath string, at SimTime) {
	d.emit(EventTypeChannelUnbusy, map[string]any{
		"channel": channelPath,
		"at":      at.String(),
	}, nil)
}

// ModuleLifecycle reports a module lifecycle transition (init, start,
// shutdown, restart).
func (d *Diagnostics) ModuleLifecycle(modulePath, action string, at SimTime) {
	d.emit(EventTypeModuleLifecycle, map[string]any{
		"module": modulePath,
		"action": action,
		"at":     at.String(),
	}, map[string]any{"action": action})
}

// PanicRecovered reports a panic converted into a shutdown-and-restart by a
// module whose Stereotype opts into that behavior.
func (d *Diagnostics) PanicRecovered(modulePath string, recovered any, at SimTime) {
	d.emit(EventTypePanicRecovered, map[string]any{
		"module":    modulePath,
		"recovered": fmt.Sprint(recovered),
		"at":        at.String(),
	}, nil)
}
