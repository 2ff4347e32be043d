package gsusb

import (
	"context"
	"log/slog"
	"time"
)

// LoggedBus is a Bus decorator that logs Send/Receive operations using a
// slog.Logger.

// LogOption is a bitmask for selecting which operations to log.
type LogOption uint8

const (
	LogNone LogOption = 0
	LogRead LogOption = 1 << iota
	LogWrite
	LogAll = LogRead | LogWrite
)

// NewLoggedBus wraps the given Bus and logs selected operations at the given
// level. Send errors are logged at slog.LevelError. An empty receive poll is
// not logged; it is the normal idle outcome, not an error.
func NewLoggedBus(inner Bus, logger *slog.Logger, level slog.Level, opts LogOption) Bus {
	return &loggedBus{
		inner:  inner,
		logger: logger,
		level:  level,
		opts:   opts,
	}
}

type loggedBus struct {
	inner  Bus
	logger *slog.Logger
	level  slog.Level
	opts   LogOption
}

// Send logs the message and the result when write logging is enabled.
func (l *loggedBus) Send(msg Message, timeout time.Duration) error {
	if l.opts&LogWrite != 0 {
		l.logger.Log(context.Background(), l.level, "gsusb send",
			"id", msg.ID,
			"extended", msg.Extended,
			"rtr", msg.RTR,
			"fd", msg.FD,
			"len", int(msg.Len),
			"data", msg.Data[:msg.Len],
			"string", msg.String(),
		)
	}
	err := l.inner.Send(msg, timeout)
	if l.opts&LogWrite != 0 && err != nil {
		l.logger.Log(context.Background(), slog.LevelError, "gsusb send error",
			"id", msg.ID,
			"error", err,
		)
	}
	return err
}

// Receive logs the received message when read logging is enabled.
func (l *loggedBus) Receive(timeout time.Duration) (*Message, bool) {
	msg, filtered := l.inner.Receive(timeout)
	if l.opts&LogRead != 0 && msg != nil {
		l.logger.Log(context.Background(), l.level, "gsusb receive",
			"id", msg.ID,
			"extended", msg.Extended,
			"echo", msg.Echo,
			"fd", msg.FD,
			"len", int(msg.Len),
			"data", msg.Data[:msg.Len],
			"string", msg.String(),
		)
	}
	return msg, filtered
}

// Shutdown forwards to the inner Bus and logs a failed stop.
func (l *loggedBus) Shutdown() error {
	err := l.inner.Shutdown()
	if err != nil {
		l.logger.Log(context.Background(), slog.LevelError, "gsusb shutdown error",
			"error", err,
		)
	}
	return err
}
