// Package appstate decodes the key/value state the node reports for an
// application into plain Go values.
package appstate

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
)

// Set of value kinds the node tags state values with.
const (
	TypeBytes uint64 = 1
	TypeUint  uint64 = 2
)

// ErrUnexpectedType is matched by errors for values with an unknown kind.
var ErrUnexpectedType = errors.New("unexpected state type")

// UnexpectedTypeError is returned for a value with an unknown kind.
type UnexpectedTypeError struct {
	Key  string
	Type uint64
}

// Error implements the error interface.
func (ute *UnexpectedTypeError) Error() string {
	return fmt.Sprintf("unexpected state type: key %q: type %d", ute.Key, ute.Type)
}

// Is allows errors.Is to match ErrUnexpectedType.
func (ute *UnexpectedTypeError) Is(target error) bool {
	return target == ErrUnexpectedType
}

// =============================================================================

// Value is a decoded state value. Only the field matching Type is set.
type Value struct {
	Type  uint64
	Bytes []byte
	Uint  uint64
}

// String implements the fmt.Stringer interface.
func (v Value) String() string {
	if v.Type == TypeUint {
		return strconv.FormatUint(v.Uint, 10)
	}
	return strconv.Quote(string(v.Bytes))
}

// State is an application's decoded key/value state.
type State map[string]Value

// Format decodes the key/value entries the node reports.
func Format(kvs []models.TealKeyValue) (State, error) {
	state := make(State, len(kvs))

	for _, kv := range kvs {
		key, err := base64.StdEncoding.DecodeString(kv.Key)
		if err != nil {
			return nil, fmt.Errorf("decoding key %q: %w", kv.Key, err)
		}

		switch kv.Value.Type {
		case TypeBytes:
			b, err := base64.StdEncoding.DecodeString(kv.Value.Bytes)
			if err != nil {
				return nil, fmt.Errorf("decoding value of %q: %w", key, err)
			}
			state[string(key)] = Value{Type: TypeBytes, Bytes: b}

		case TypeUint:
			state[string(key)] = Value{Type: TypeUint, Uint: kv.Value.Uint}

		default:
			return nil, &UnexpectedTypeError{Key: string(key), Type: kv.Value.Type}
		}
	}

	return state, nil
}

// Uint returns the integer held by the key. A key the node doesn't report
// reads as zero, matching how programs see a missing key.
func (s State) Uint(key string) (uint64, error) {
	v, exists := s[key]
	if !exists {
		return 0, nil
	}
	if v.Type != TypeUint {
		return 0, fmt.Errorf("key %q holds bytes", key)
	}
	return v.Uint, nil
}

// Bytes returns the byte string held by the key.
func (s State) Bytes(key string) ([]byte, error) {
	v, exists := s[key]
	if !exists {
		return nil, nil
	}
	if v.Type != TypeBytes {
		return nil, fmt.Errorf("key %q holds an integer", key)
	}
	return v.Bytes, nil
}

// Keys returns the keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
