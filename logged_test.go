package gsusb

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type recordSink struct {
	records []slog.Record
}

func (s *recordSink) Enabled(context.Context, slog.Level) bool { return true }
func (s *recordSink) Handle(_ context.Context, r slog.Record) error {
	// Make a deep copy of attributes because slog reuses the record during processing
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool { attrs = append(attrs, a); return true })
	nr := slog.Record{Time: r.Time, Level: r.Level, PC: r.PC, Message: r.Message}
	for _, a := range attrs {
		nr.AddAttrs(a)
	}
	s.records = append(s.records, nr)
	return nil
}
func (s *recordSink) WithAttrs(attrs []slog.Attr) slog.Handler { return s }
func (s *recordSink) WithGroup(name string) slog.Handler       { return s }

func hasSlogMsg(records []slog.Record, level slog.Level, msg string) bool {
	for _, r := range records {
		if r.Level == level && r.Message == msg {
			return true
		}
	}
	return false
}

func openLogged(t *testing.T, dev *LoopbackDevice, sink *recordSink, opts LogOption) Bus {
	t.Helper()
	enum := &LoopbackEnumerator{Devices: []*LoopbackDevice{dev}}
	inner, err := Open(Config{Channel: "can0", Bitrate: 500_000}, enum)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return NewLoggedBus(inner, slog.New(sink), slog.LevelInfo, opts)
}

func TestLoggedBus_WriteAndReadLogging(t *testing.T) {
	dev := NewLoopbackDevice(0, 1)
	dev.EchoTX = true
	sink := &recordSink{}
	bus := openLogged(t, dev, sink, LogAll)
	defer bus.Shutdown()

	if err := bus.Send(MustMessage(0x123, []byte{1, 2, 3}), 0); err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg, _ := bus.Receive(100 * time.Millisecond); msg == nil {
		t.Fatalf("expected the echoed message")
	}

	if !hasSlogMsg(sink.records, slog.LevelInfo, "gsusb send") {
		t.Fatalf("expected write log entry")
	}
	if !hasSlogMsg(sink.records, slog.LevelInfo, "gsusb receive") {
		t.Fatalf("expected read log entry")
	}
}

func TestLoggedBus_EmptyPollNotLogged(t *testing.T) {
	dev := NewLoopbackDevice(0, 1)
	sink := &recordSink{}
	bus := openLogged(t, dev, sink, LogRead)
	defer bus.Shutdown()

	if msg, _ := bus.Receive(0); msg != nil {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if len(sink.records) != 0 {
		t.Fatalf("empty poll should not log, got %d records", len(sink.records))
	}
}

func TestLoggedBus_ErrorLogging(t *testing.T) {
	dev := NewLoopbackDevice(0, 1)
	dev.SendErr = errors.New("bulk transfer failed")
	sink := &recordSink{}
	bus := openLogged(t, dev, sink, LogWrite)

	if err := bus.Send(MustMessage(0x1, nil), 0); err == nil {
		t.Fatalf("expected send error")
	}
	if !hasSlogMsg(sink.records, slog.LevelError, "gsusb send error") {
		t.Fatalf("expected send error log entry")
	}

	dev.StopErr = errors.New("stop failed")
	if err := bus.Shutdown(); err == nil {
		t.Fatalf("expected shutdown error")
	}
	if !hasSlogMsg(sink.records, slog.LevelError, "gsusb shutdown error") {
		t.Fatalf("expected shutdown error log entry")
	}
}
