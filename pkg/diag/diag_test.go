package diag_test

import (
	"testing"

	"github.com/ifm/ifm/pkg/diag"
)

func TestReporterCollectsMessages(t *testing.T) {
	var captured []diag.Message
	r := diag.NewReporter(diag.SinkFunc(func(m diag.Message) {
		captured = append(captured, m)
	}), 2, 0)

	r.Warnf(0, "room %s overlaps another", "R1")
	r.Errorf(1, "tag %q is undefined", "ghost")

	if len(captured) != 2 {
		t.Fatalf("expected 2 emitted messages, got %d", len(captured))
	}
	if captured[0].Severity != diag.Warning {
		t.Errorf("expected first message to be Warning, got %v", captured[0].Severity)
	}
	if captured[1].Severity != diag.Error {
		t.Errorf("expected second message to be Error, got %v", captured[1].Severity)
	}
	if r.ErrorCount() != 1 {
		t.Errorf("ErrorCount() = %d, want 1", r.ErrorCount())
	}
}

func TestReporterAbortsPastErrorThreshold(t *testing.T) {
	r := diag.NewReporter(nil, 0, 2)
	if r.Aborted() {
		t.Fatal("should not be aborted initially")
	}
	r.Errorf(0, "e1")
	r.Errorf(0, "e2")
	if r.Aborted() {
		t.Fatal("should not abort at exactly the threshold")
	}
	r.Errorf(0, "e3")
	if !r.Aborted() {
		t.Fatal("should abort once the threshold is exceeded")
	}
}

func TestReporterFatalAborts(t *testing.T) {
	r := diag.NewReporter(nil, 0, 0)
	r.Fatalf(0, "boom")
	if !r.Aborted() {
		t.Fatal("fatal message should set Aborted")
	}
}

func TestDebugSuppressedByVerbosity(t *testing.T) {
	var captured []diag.Message
	r := diag.NewReporter(diag.SinkFunc(func(m diag.Message) {
		captured = append(captured, m)
	}), 1, 0)

	r.Debugf(0, "shallow")
	r.Debugf(2, "deep")

	if len(captured) != 1 {
		t.Fatalf("expected 1 message to pass verbosity filter, got %d", len(captured))
	}
	if len(r.Messages()) != 2 {
		t.Fatalf("Messages() should still record every message, got %d", len(r.Messages()))
	}
}
