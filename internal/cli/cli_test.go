package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseArgsDefaults(t *testing.T) {
	opts, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if opts.ConfigPath != "" || opts.LogFile != "" || opts.Debug || opts.ShowHelp || opts.ShowVersion {
		t.Fatalf("expected zero-value options, got %+v", opts)
	}
}

func TestParseArgsFlags(t *testing.T) {
	opts, err := ParseArgs([]string{"--config", "/etc/tugboat.yaml", "--debug"})
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if opts.ConfigPath != "/etc/tugboat.yaml" {
		t.Errorf("config path not parsed: %q", opts.ConfigPath)
	}
	if !opts.Debug {
		t.Error("debug flag not parsed")
	}
}

func TestParseArgsLogFileImpliesDebug(t *testing.T) {
	opts, err := ParseArgs([]string{"--log-file", "/tmp/t.log"})
	if err != nil {
		t.Fatalf("ParseArgs failed: %v", err)
	}
	if !opts.Debug {
		t.Error("--log-file must imply --debug")
	}
	if opts.LogFile != "/tmp/t.log" {
		t.Errorf("log file not parsed: %q", opts.LogFile)
	}
}

func TestParseArgsRejectsPositional(t *testing.T) {
	if _, err := ParseArgs([]string{"docker"}); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestParseArgsRejectsUnknownFlag(t *testing.T) {
	if _, err := ParseArgs([]string{"--frobnicate"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"--help"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "USAGE") {
		t.Error("expected usage text")
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"--version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), Version) {
		t.Errorf("expected version string, got %q", stdout.String())
	}
}

func TestRunBadFlagExitsNonzero(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"--nope"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if stderr.Len() == 0 {
		t.Error("expected an error message on stderr")
	}
}

func TestRunBadConfigExitsNonzero(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"--config", "/definitely/not/here.yaml"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("expected exit 2 for unreadable explicit config, got %d", code)
	}
}
