package services_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"autosub/internal/services"
)

func TestRunCommandIncludesOutputInError(t *testing.T) {
	_, err := services.RunCommand(context.Background(), "sh", "-c", "echo broken pipe >&2; exit 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "broken pipe") {
		t.Fatalf("expected output in error, got %v", err)
	}
}

func TestEnvRunnerAddsVariables(t *testing.T) {
	run := services.EnvRunner("AUTOSUB_TEST_VALUE=present")
	out, err := run(context.Background(), "sh", "-c", "printf %s \"$AUTOSUB_TEST_VALUE\"")
	if err != nil {
		t.Fatalf("EnvRunner: %v", err)
	}
	if string(out) != "present" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStreamingRunnerMirrorsOutput(t *testing.T) {
	var buf bytes.Buffer
	run := services.StreamingRunner(&buf)
	out, err := run(context.Background(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("StreamingRunner: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil output, got %q", out)
	}
	if strings.TrimSpace(buf.String()) != "hello" {
		t.Fatalf("expected mirrored output, got %q", buf.String())
	}
}
