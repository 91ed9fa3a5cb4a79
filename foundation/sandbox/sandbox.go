// Package sandbox controls a local Algorand sandbox through its command line
// script. The script is treated as an opaque process: arguments go in,
// captured output comes back.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNoPassphrase is returned when the export output holds no mnemonic.
var ErrNoPassphrase = errors.New("no passphrase in output")

// Output is the captured output of a sandbox command.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Sandbox runs commands through the sandbox script.
type Sandbox struct {
	dir   string
	stdin io.Reader
}

// New constructs a sandbox for the script in dir. An empty dir falls back to
// the SANDBOX_DIR environment variable and then to a sandbox folder next to
// the working directory.
func New(dir string) *Sandbox {
	if dir == "" {
		dir = Dir()
	}

	return &Sandbox{
		dir:   dir,
		stdin: os.Stdin,
	}
}

// Dir returns the default sandbox folder.
func Dir() string {
	if dir := os.Getenv("SANDBOX_DIR"); dir != "" {
		return dir
	}

	wd, err := os.Getwd()
	if err != nil {
		return filepath.Join("..", "sandbox")
	}
	return filepath.Join(filepath.Dir(wd), "sandbox")
}

// WithStdin replaces the input handed to the script. The script attaches to
// docker with a terminal, so it inherits the process stdin by default.
func (s *Sandbox) WithStdin(r io.Reader) *Sandbox {
	s.stdin = r
	return s
}

// Executable returns the path of the sandbox script.
func (s *Sandbox) Executable() string {
	return filepath.Join(s.dir, "sandbox")
}

// Run executes the script with the arguments and captures its output. A
// non-zero exit is returned as an error along with the output.
func (s *Sandbox) Run(ctx context.Context, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, s.Executable(), args...)
	cmd.Stdin = s.stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err != nil {
		return out, fmt.Errorf("sandbox %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return out, nil
}

// Up starts the local network.
func (s *Sandbox) Up(ctx context.Context) (Output, error) {
	return s.Run(ctx, "up")
}

// Passphrase returns the mnemonic of an account held by the sandbox node's
// wallet.
func (s *Sandbox) Passphrase(ctx context.Context, address string) (string, error) {
	out, err := s.Run(ctx, "goal", "account", "export", "-a", address)
	if err != nil {
		return "", err
	}

	if len(out.Stderr) > 0 {
		return "", errors.New(strings.TrimSpace(string(out.Stderr)))
	}

	return parsePassphrase(string(out.Stdout))
}

// parsePassphrase extracts the quoted mnemonic from the export output.
func parsePassphrase(output string) (string, error) {
	parts := strings.Split(output, `"`)
	if len(parts) < 2 || parts[1] == "" {
		return "", fmt.Errorf("%w: %s", ErrNoPassphrase, strings.TrimSpace(output))
	}

	return parts[1], nil
}
