// Package teal provides an expression tree for writing Algorand smart
// contracts and renders the tree into TEAL assembly source that the node's
// compile endpoint accepts.
package teal

import (
	"errors"
	"fmt"
	"strings"
)

// Set of errors returned while compiling an expression tree.
var (
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrInvalidMode    = errors.New("operation not available in mode")
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidVersion = errors.New("invalid version")
	ErrInvalidArgs    = errors.New("invalid arguments")
)

// Supported TEAL versions.
const (
	MinVersion = 2
	MaxVersion = 8
)

// =============================================================================

// Type represents the type of value an expression leaves on the stack.
type Type int

// Set of expression types.
const (
	TypeNone Type = iota
	TypeUint64
	TypeBytes
	TypeAny
)

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeUint64:
		return "uint64"
	case TypeBytes:
		return "bytes"
	case TypeAny:
		return "any"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// accepts reports whether a value of type got can be used where t is needed.
func (t Type) accepts(got Type) bool {
	if t == got {
		return true
	}
	if t == TypeAny && got != TypeNone {
		return true
	}
	if got == TypeAny && t != TypeNone {
		return true
	}
	return false
}

// Mode represents the kind of program being compiled.
type Mode int

// Set of program modes.
const (
	ModeApplication Mode = iota
	ModeSignature
)

// String implements the fmt.Stringer interface.
func (m Mode) String() string {
	if m == ModeSignature {
		return "signature"
	}
	return "application"
}

// =============================================================================

// CompileError is returned when an expression tree can't be rendered.
type CompileError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (ce *CompileError) Error() string {
	return fmt.Sprintf("teal: %s: %s", ce.Op, ce.Err)
}

// Unwrap provides access to the underlying error.
func (ce *CompileError) Unwrap() error {
	return ce.Err
}

// =============================================================================

// Expr represents a node in the contract expression tree.
type Expr interface {
	Type() Type
	compile(c *compiler) error
}

// Compile type checks the expression tree and renders it to TEAL source for
// the specified mode and version.
func Compile(expr Expr, mode Mode, version int) (string, error) {
	if version < MinVersion || version > MaxVersion {
		return "", &CompileError{Op: "pragma", Err: fmt.Errorf("%w: %d", ErrInvalidVersion, version)}
	}

	c := compiler{
		mode:    mode,
		version: version,
		slots:   make(map[*ScratchVar]int),
	}

	c.emit(fmt.Sprintf("#pragma version %d", version))
	if err := expr.compile(&c); err != nil {
		return "", err
	}

	return strings.Join(c.lines, "\n") + "\n", nil
}

// =============================================================================

// compiler accumulates the rendered program.
type compiler struct {
	mode    Mode
	version int
	lines   []string
	label   int
	slots   map[*ScratchVar]int
}

// emit appends an instruction to the program.
func (c *compiler) emit(line string) {
	c.lines = append(c.lines, line)
}

// newLabel returns the next unique label name.
func (c *compiler) newLabel() string {
	c.label++
	return fmt.Sprintf("main_l%d", c.label)
}

// place marks the position of a label in the program.
func (c *compiler) place(label string) {
	c.emit(label + ":")
}

// terminated reports whether the last instruction ends execution, so
// falling through to the next instruction is impossible.
func (c *compiler) terminated() bool {
	if len(c.lines) == 0 {
		return false
	}
	last := c.lines[len(c.lines)-1]
	return last == "return" || last == "err"
}

// slot returns the scratch slot assigned to the variable, assigning the
// next free slot on first use.
func (c *compiler) slot(sv *ScratchVar) int {
	n, exists := c.slots[sv]
	if !exists {
		n = len(c.slots)
		c.slots[sv] = n
	}
	return n
}

// check verifies an expression leaves the expected type.
func (c *compiler) check(op string, want Type, expr Expr) error {
	if expr == nil {
		return &CompileError{Op: op, Err: fmt.Errorf("%w: missing expression", ErrInvalidArgs)}
	}
	if !want.accepts(expr.Type()) {
		return &CompileError{Op: op, Err: fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, expr.Type())}
	}
	return nil
}

// child checks an expression and then compiles it.
func (c *compiler) child(op string, want Type, expr Expr) error {
	if err := c.check(op, want, expr); err != nil {
		return err
	}
	return expr.compile(c)
}

// requireMode fails the compile when the operation is not available.
func (c *compiler) requireMode(op string, mode Mode) error {
	if c.mode != mode {
		return &CompileError{Op: op, Err: fmt.Errorf("%w: %s", ErrInvalidMode, c.mode)}
	}
	return nil
}
