// Package log provides a logging effect kind and zap-backed handlers for it.
//
// A computation that wants to log yields a [Payload] instead of touching a
// logger; which logger runs, if any, is decided at composition time by the
// handler attached for this kind.
package log

import (
	"github.com/on-the-ground/effect_algebra_go/effects"
	"go.uber.org/zap"
)

// Level defines the severity level for log requests.
type Level string

const (
	// LevelInfo is used for general informational messages.
	LevelInfo Level = "info"

	// LevelWarn is used for potentially harmful situations.
	LevelWarn Level = "warn"

	// LevelError is used for error events that might still allow the
	// computation to continue running.
	LevelError Level = "error"

	// LevelDebug is used for debugging messages with detailed internal
	// information.
	LevelDebug Level = "debug"
)

// Payload is the request of the logging effect kind: the log level, message
// string, and optional structured fields.
type Payload struct {
	Level   Level
	Message string
	Fields  map[string]interface{}
}

// Done is the result of the logging effect kind.
type Done struct{}

// NewZapHandler returns a handler that writes log requests through logger.
// Unknown levels fall back to Info.
func NewZapHandler(logger *zap.Logger) effects.Handler[Payload, Done] {
	return effects.HandlerFunc[Payload, Done](func(p Payload) (Done, error) {
		fields := make([]zap.Field, 0, len(p.Fields))
		for k, v := range p.Fields {
			fields = append(fields, zap.Any(k, v))
		}

		switch p.Level {
		case LevelInfo:
			logger.Info(p.Message, fields...)
		case LevelWarn:
			logger.Warn(p.Message, fields...)
		case LevelError:
			logger.Error(p.Message, fields...)
		case LevelDebug:
			logger.Debug(p.Message, fields...)
		default:
			logger.Info(p.Message, fields...)
		}
		return Done{}, nil
	})
}

// NewRecordingHandler returns a handler that appends every payload to sink.
// Useful in tests asserting what a computation tried to log.
func NewRecordingHandler(sink *[]Payload) effects.Handler[Payload, Done] {
	return effects.HandlerFunc[Payload, Done](func(p Payload) (Done, error) {
		*sink = append(*sink, p)
		return Done{}, nil
	})
}

// NewDecliningHandler returns a handler that declines every payload,
// leaving the request to an outer layer.
func NewDecliningHandler() effects.Handler[Payload, Done] {
	return effects.HandlerFunc[Payload, Done](func(Payload) (Done, error) {
		return Done{}, effects.ErrDecline
	})
}
