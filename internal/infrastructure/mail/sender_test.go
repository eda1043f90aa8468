package mail

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type flakySender struct {
	failures int
	calls    int
}

func (f *flakySender) Send(ctx context.Context, to, subject, html string) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("temporary failure")
	}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRetryingSenderRecovers(t *testing.T) {
	next := &flakySender{failures: 2}
	sender := NewRetryingSender(next, 3, time.Millisecond, quietLogger())

	if err := sender.Send(context.Background(), "studio@example.com", "Hi", "<p>x</p>"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if next.calls != 3 {
		t.Fatalf("calls = %d, want 3", next.calls)
	}
}

func TestRetryingSenderGivesUp(t *testing.T) {
	next := &flakySender{failures: 10}
	sender := NewRetryingSender(next, 2, time.Millisecond, quietLogger())

	if err := sender.Send(context.Background(), "studio@example.com", "Hi", "<p>x</p>"); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if next.calls != 2 {
		t.Fatalf("calls = %d, want 2", next.calls)
	}
}

func TestBuildMessageStripsHeaderInjection(t *testing.T) {
	msg := BuildMessage("from@example.com", "to@example.com", "Hello\r\nBcc: evil@example.com", "<b>body</b>")
	if strings.Contains(msg, "\r\nBcc:") {
		t.Fatalf("header injection not stripped: %q", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/html") {
		t.Fatalf("missing html content type: %q", msg)
	}
}
