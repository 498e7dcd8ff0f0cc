package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrorProperties describes a single failure. It marshals to one flat JSON
// object: name, message and stack first, then the caller fields laid over them.
type ErrorProperties struct {
	Name    string
	Message string
	// Stack is omitted from the JSON form when empty.
	Stack string
	// Fields holds caller context (route, request id, ...).
	Fields map[string]any
}

// Map returns the flat representation of p.
func (p ErrorProperties) Map() map[string]any {
	m := make(map[string]any, len(p.Fields)+3)
	m["name"] = p.Name
	m["message"] = p.Message
	if p.Stack != "" {
		m["stack"] = p.Stack
	}
	for k, v := range p.Fields {
		m[k] = v
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (p ErrorProperties) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Map())
}

// UnmarshalJSON implements json.Unmarshaler. Keys other than name, message
// and stack are collected into Fields.
func (p *ErrorProperties) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*p = ErrorProperties{}
	for k, v := range m {
		switch k {
		case "name":
			p.Name, _ = v.(string)
		case "message":
			p.Message, _ = v.(string)
		case "stack":
			p.Stack, _ = v.(string)
		default:
			if p.Fields == nil {
				p.Fields = make(map[string]any)
			}
			p.Fields[k] = v
		}
	}
	return nil
}

// Payload is the JSON body sent to the reporting endpoint.
type Payload map[string]any

// NewPayload shallow-copies template and sets key to props.
func NewPayload(template map[string]any, key string, props ErrorProperties) Payload {
	p := make(Payload, len(template)+1)
	for k, v := range template {
		p[k] = v
	}
	p[key] = props
	return p
}

// LogEntry is one persisted record of a failed report attempt.
type LogEntry struct {
	When    string          `json:"when"`
	Message string          `json:"message"`
	Payload Payload         `json:"payload"`
	Error   ErrorProperties `json:"error"`
}

// TimestampLayout is the layout of LogEntry.When: UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NewLogEntry builds a LogEntry stamped with now.
func NewLogEntry(now time.Time, message string, payload Payload, props ErrorProperties) LogEntry {
	return LogEntry{
		When:    now.UTC().Format(TimestampLayout),
		Message: message,
		Payload: payload,
		Error:   props,
	}
}

// Result is the outcome of a report attempt.
type Result struct {
	OK     bool   `json:"ok"`
	Logged bool   `json:"logged,omitempty"`
	File   string `json:"file,omitempty"`

	// Body is the parsed response body on remote success,
	// or {"ok": true} when the body was empty or not JSON.
	Body any `json:"body,omitempty"`
}

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Name reports the error name used in ErrorProperties.
func (e *PanicError) Name() string { return "panic" }

// StackTrace returns the goroutine stack captured at recovery.
func (e *PanicError) StackTrace() string { return e.Stack }

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
