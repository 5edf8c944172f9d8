package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestPionLoggerBridge(t *testing.T) {
	base := New(true)
	var buf bytes.Buffer
	root := base.Wrap(base.Output(&buf).With())

	lg := NewPionLogger(root, 0).NewLogger("ice")
	lg.Info("connectivity check")
	lg.Errorf("failed after %d tries", 3)

	out := buf.String()
	for _, want := range []string{`"mod":"ice"`, "connectivity check", "failed after 3 tries"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in the output:\n%s", want, out)
		}
	}
}

func TestPionLoggerVerbosityCap(t *testing.T) {
	base := New(true)
	var buf bytes.Buffer
	root := base.Wrap(base.Output(&buf).With())

	// capped at warn regardless of the global level
	lg := NewPionLogger(root, 3).NewLogger("dtls")
	lg.Debug("noise")
	lg.Info("more noise")
	lg.Warn("handshake retry")

	out := buf.String()
	if strings.Contains(out, "noise") {
		t.Errorf("sub-warn records should be dropped:\n%s", out)
	}
	if !strings.Contains(out, "handshake retry") {
		t.Errorf("warn should pass the cap:\n%s", out)
	}
}
