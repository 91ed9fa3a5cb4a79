package sandbox_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/algoapps/foundation/sandbox"
)

const phrase = "abandon ability able about above absent absorb abstract absurd abuse access accident account accuse achieve acid acoustic acquire across act action actor actress actual adapt"

// script writes a fake sandbox script into a temp folder.
func script(t *testing.T, body string) *sandbox.Sandbox {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "sandbox")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0700); err != nil {
		t.Fatalf("Should be able to write the script: %s", err)
	}

	return sandbox.New(dir).WithStdin(strings.NewReader(""))
}

// =============================================================================

func Test_Up(t *testing.T) {
	sb := script(t, `echo "started $1"`)

	out, err := sb.Up(context.Background())
	if err != nil {
		t.Fatalf("Should be able to run up: %s", err)
	}

	if strings.TrimSpace(string(out.Stdout)) != "started up" {
		t.Fatalf("Should capture the output, got %q.", out.Stdout)
	}
}

func Test_Passphrase(t *testing.T) {
	sb := script(t, `echo "Exported key for account $5: \"`+phrase+`\""`)

	got, err := sb.Passphrase(context.Background(), "ADDR")
	if err != nil {
		t.Fatalf("Should be able to export the passphrase: %s", err)
	}

	if got != phrase {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", phrase)
		t.Fatalf("Should get back the quoted passphrase.")
	}
}

func Test_PassphraseMissing(t *testing.T) {
	sb := script(t, `echo "Account not found"`)

	_, err := sb.Passphrase(context.Background(), "ADDR")
	if !errors.Is(err, sandbox.ErrNoPassphrase) {
		t.Fatalf("Should fail without a quoted passphrase: %v", err)
	}
}

func Test_PassphraseStderr(t *testing.T) {
	sb := script(t, `echo "the input device is not a TTY" >&2`)

	_, err := sb.Passphrase(context.Background(), "ADDR")
	if err == nil || !strings.Contains(err.Error(), "not a TTY") {
		t.Fatalf("Should fail with the error output: %v", err)
	}
}

func Test_RunFailure(t *testing.T) {
	sb := script(t, `echo "boom" >&2; exit 3`)

	out, err := sb.Run(context.Background(), "down")
	if err == nil {
		t.Fatalf("Should fail on a non-zero exit.")
	}

	if strings.TrimSpace(string(out.Stderr)) != "boom" {
		t.Fatalf("Should still capture the error output, got %q.", out.Stderr)
	}
}
