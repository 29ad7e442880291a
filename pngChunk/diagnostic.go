package pngChunk

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type DiagnosticKind int

const (
	DiagUnknownType DiagnosticKind = iota
	DiagCrcMismatch
	DiagInvalidPayload
	DiagBadSignature
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUnknownType:
		return "unknown chunk type"
	case DiagCrcMismatch:
		return "crc mismatch"
	case DiagInvalidPayload:
		return "invalid payload"
	case DiagBadSignature:
		return "bad signature"
	}
	return fmt.Sprintf("diagnostic(%d)", int(k))
}

// Diagnostic is a non-fatal finding made while reading a stream.
type Diagnostic struct {
	Kind     DiagnosticKind
	Offset   int64
	Type     string
	Expected uint32
	Actual   uint32
	Message  string
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagCrcMismatch:
		return fmt.Sprintf("%s at offset %d: %s: expected %08x, actual %08x", d.Kind, d.Offset, d.Type, d.Expected, d.Actual)
	case DiagUnknownType:
		return fmt.Sprintf("%s at offset %d: %q", d.Kind, d.Offset, d.Type)
	}
	return fmt.Sprintf("%s at offset %d: %s", d.Kind, d.Offset, d.Message)
}

// Observer receives diagnostics. Readers call it synchronously.
type Observer interface {
	Observe(Diagnostic)
}

type ObserverFunc func(Diagnostic)

func (f ObserverFunc) Observe(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Observer = ObserverFunc(func(Diagnostic) {})

// LogObserver forwards diagnostics to a logrus logger.
func LogObserver(log logrus.FieldLogger) Observer {
	return ObserverFunc(func(d Diagnostic) {
		entry := log.WithFields(logrus.Fields{
			"diagnostic": d.Kind.String(),
			"offset":     d.Offset,
			"type":       d.Type,
		})
		switch d.Kind {
		case DiagCrcMismatch:
			entry.WithFields(logrus.Fields{
				"expected": fmt.Sprintf("%08x", d.Expected),
				"actual":   fmt.Sprintf("%08x", d.Actual),
			}).Warn("Crc value is invalid")
		case DiagUnknownType:
			entry.Info("Unknown chunk type")
		default:
			entry.Warn(d.Message)
		}
	})
}

// Collector keeps every diagnostic it observes. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (c *Collector) Observe(d Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of what has been collected so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Multi fans a diagnostic out to every non-nil observer.
func Multi(observers ...Observer) Observer {
	return ObserverFunc(func(d Diagnostic) {
		for _, o := range observers {
			if o != nil {
				o.Observe(d)
			}
		}
	})
}
