package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"check", "email", "a@b.com"}, "Valid"},
		{[]string{"check", "phone", "123-456.7890"}, "Invalid"},
		{[]string{"check", "time", "  11:59 PM "}, "Valid"},
		{[]string{"check", "hashtag", "#café"}, "Invalid"},
		{[]string{"check", "hashtag", "#1abc"}, "Valid"},
	}

	for _, tc := range cases {
		out, err := execute(t, "", tc.args...)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", tc.args, err)
		}
		if strings.TrimSpace(out) != tc.want {
			t.Fatalf("%v: expected %q, got %q", tc.args, tc.want, out)
		}
	}
}

func TestCheckUnknownPattern(t *testing.T) {
	_, err := execute(t, "", "check", "zipcode", "12345")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "credit_card") {
		t.Fatalf("expected known pattern names in error, got %v", err)
	}
}

func TestCheckBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "examples.yaml")
	body := "email:\n  - a@b.com\n  - nope\ncurrency:\n  - $1,234.56\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := execute(t, "", "check", "--batch", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string][]bool
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(got["email"]) != 2 || !got["email"][0] || got["email"][1] {
		t.Fatalf("unexpected email verdicts %v", got["email"])
	}
	if len(got["currency"]) != 1 || !got["currency"][0] {
		t.Fatalf("unexpected currency verdicts %v", got["currency"])
	}
}

func TestExtractFromArgs(t *testing.T) {
	out, err := execute(t, "", "extract", "--category", "emails,hashtags", "ping", "a@b.com", "#go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "emails (1):\n  a@b.com\nhashtags (1):\n  #go\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestExtractFromStdinJSON(t *testing.T) {
	out, err := execute(t, "card 1234-5678-9012-3456 then 1234 5678-9012 3456", "extract", "--format", "json", "--category", "credit_cards,phones")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string][]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(got["credit_cards"]) != 1 || got["credit_cards"][0] != "1234-5678-9012-3456" {
		t.Fatalf("unexpected cards %v", got["credit_cards"])
	}
	// phone is anchored to the whole input
	if phones, ok := got["phones"]; !ok || len(phones) != 0 {
		t.Fatalf("expected empty phone list, got %v", phones)
	}
}

func TestExtractRejectsOversizedInput(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "patternkit.yaml")
	if err := os.WriteFile(cfgPath, []byte("configVersion: 1\nlimits:\n  maxInputBytes: 8\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := execute(t, "", "extract", "--config", cfgPath, "this text is longer than eight bytes"); err == nil {
		t.Fatalf("expected size error")
	}
}

func TestExtractWritesResultLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "results.jsonl")
	cfgPath := filepath.Join(dir, "patternkit.yaml")
	if err := os.WriteFile(cfgPath, []byte("configVersion: 1\nlogging:\n  resultLog: results.jsonl\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := execute(t, "", "extract", "--config", cfgPath, "#a #b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"hashtags":2`) {
		t.Fatalf("expected hashtag count in log, got %s", data)
	}
	if strings.Contains(string(data), "#a") {
		t.Fatalf("expected raw text to stay out of the log")
	}

	out, err := execute(t, "", "report", "--in", logPath, "--format", "json")
	if err != nil {
		t.Fatalf("report error: %v", err)
	}
	if !strings.Contains(out, `"extractions": 1`) {
		t.Fatalf("unexpected report %s", out)
	}
}

func TestInteractiveCommand(t *testing.T) {
	out, err := execute(t, "6\n#golang\nn\n", "interactive")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Result: Valid") || !strings.HasSuffix(out, "Goodbye!\n") {
		t.Fatalf("unexpected transcript %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patternkit.yaml")
	if err := os.WriteFile(path, []byte("configVersion: 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := execute(t, "", "validate", "--config", path)
	if err != nil || strings.TrimSpace(out) != "config ok" {
		t.Fatalf("expected config ok, got %q, %v", out, err)
	}

	if err := os.WriteFile(path, []byte("configVersion: 7\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := execute(t, "", "validate", "--config", path); err == nil {
		t.Fatalf("expected validation error")
	}
}
