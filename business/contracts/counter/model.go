package counter

import (
	"fmt"
	"strings"
)

// Op is an operation understood by the counter application.
type Op string

// Set of counter operations.
const (
	OpAdd    Op = "Add"
	OpDeduct Op = "Deduct"
)

// ParseOp converts a string into an operation. Matching is exact, since the
// application compares the raw argument bytes.
func ParseOp(s string) (Op, error) {
	switch Op(s) {
	case OpAdd, OpDeduct:
		return Op(s), nil
	}
	return "", fmt.Errorf("unknown counter operation %q", s)
}

// ParseOps converts a comma separated list into operations.
func ParseOps(s string) ([]Op, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var ops []Op
	for _, part := range strings.Split(s, ",") {
		op, err := ParseOp(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// Args returns the application arguments for the operation.
func (op Op) Args() [][]byte {
	return [][]byte{[]byte(op)}
}

// =============================================================================

// Value is the counter as the application holds it. It predicts what the
// network will store after a sequence of confirmed calls.
type Value uint64

// Apply returns the value after the operation. Deducting from zero leaves
// the value unchanged and unknown operations change nothing, since the
// application rejects them.
func (v Value) Apply(op Op) Value {
	switch op {
	case OpAdd:
		return v + 1
	case OpDeduct:
		if v > 0 {
			return v - 1
		}
	}
	return v
}

// Replay applies the operations in order starting from a new application.
func Replay(ops ...Op) Value {
	var v Value
	for _, op := range ops {
		v = v.Apply(op)
	}
	return v
}
