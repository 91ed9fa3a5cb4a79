package teal

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/algorand/go-algorand-sdk/v2/types"
)

// intLit represents an integer constant, optionally with a symbolic name
// the assembler understands.
type intLit struct {
	value uint64
	name  string
}

// Int constructs a uint64 constant.
func Int(value uint64) Expr {
	return intLit{value: value}
}

func (e intLit) Type() Type { return TypeUint64 }

func (e intLit) compile(c *compiler) error {
	if e.name != "" {
		c.emit("int " + e.name)
		return nil
	}
	c.emit("int " + strconv.FormatUint(e.value, 10))
	return nil
}

// =============================================================================

// bytesLit represents a byte string constant.
type bytesLit struct {
	value string
}

// Bytes constructs a byte string constant.
func Bytes(value string) Expr {
	return bytesLit{value: value}
}

func (e bytesLit) Type() Type { return TypeBytes }

func (e bytesLit) compile(c *compiler) error {
	for _, r := range e.value {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			c.emit("byte 0x" + hex.EncodeToString([]byte(e.value)))
			return nil
		}
	}
	c.emit(`byte "` + e.value + `"`)
	return nil
}

// addrLit represents an account address constant.
type addrLit struct {
	address string
}

// Addr constructs an address constant. The address is checked at compile time.
func Addr(address string) Expr {
	return addrLit{address: address}
}

func (e addrLit) Type() Type { return TypeBytes }

func (e addrLit) compile(c *compiler) error {
	if _, err := types.DecodeAddress(e.address); err != nil {
		return &CompileError{Op: "addr", Err: fmt.Errorf("%w: %q: %s", ErrInvalidAddress, e.address, err)}
	}
	c.emit("addr " + e.address)
	return nil
}

// =============================================================================

// field represents a read of a transaction or global field.
type field struct {
	op    string
	name  string
	index int
	typ   Type
}

func (e field) Type() Type { return e.typ }

func (e field) compile(c *compiler) error {
	if e.op == "txna" {
		c.emit(fmt.Sprintf("txna %s %d", e.name, e.index))
		return nil
	}
	c.emit(e.op + " " + e.name)
	return nil
}

type txnFields struct{}

// Txn provides access to fields of the current transaction.
var Txn txnFields

// ApplicationID is zero while the application is being created.
func (txnFields) ApplicationID() Expr { return field{op: "txn", name: "ApplicationID", typ: TypeUint64} }

// OnCompletion is the action requested by an application call.
func (txnFields) OnCompletion() Expr { return field{op: "txn", name: "OnCompletion", typ: TypeUint64} }

// TypeEnum is the numeric transaction type.
func (txnFields) TypeEnum() Expr { return field{op: "txn", name: "TypeEnum", typ: TypeUint64} }

// Sender is the address of the transaction sender.
func (txnFields) Sender() Expr { return field{op: "txn", name: "Sender", typ: TypeBytes} }

// Receiver is the address receiving a payment.
func (txnFields) Receiver() Expr { return field{op: "txn", name: "Receiver", typ: TypeBytes} }

// Amount is the payment amount in microalgos.
func (txnFields) Amount() Expr { return field{op: "txn", name: "Amount", typ: TypeUint64} }

// NumAppArgs is the number of application arguments.
func (txnFields) NumAppArgs() Expr { return field{op: "txn", name: "NumAppArgs", typ: TypeUint64} }

// ApplicationArgs is the application argument at the index.
func (txnFields) ApplicationArgs(index int) Expr {
	return field{op: "txna", name: "ApplicationArgs", index: index, typ: TypeBytes}
}

type globalFields struct{}

// Global provides access to the global fields.
var Global globalFields

// GroupSize is the number of transactions in the current group.
func (globalFields) GroupSize() Expr { return field{op: "global", name: "GroupSize", typ: TypeUint64} }

// OnComplete holds the application call completion actions.
var OnComplete = struct {
	NoOp              Expr
	OptIn             Expr
	CloseOut          Expr
	ClearState        Expr
	UpdateApplication Expr
	DeleteApplication Expr
}{
	NoOp:              intLit{value: 0, name: "NoOp"},
	OptIn:             intLit{value: 1, name: "OptIn"},
	CloseOut:          intLit{value: 2, name: "CloseOut"},
	ClearState:        intLit{value: 3, name: "ClearState"},
	UpdateApplication: intLit{value: 4, name: "UpdateApplication"},
	DeleteApplication: intLit{value: 5, name: "DeleteApplication"},
}

// TxnType holds the transaction type enumeration.
var TxnType = struct {
	Payment         Expr
	ApplicationCall Expr
}{
	Payment:         intLit{value: 1, name: "pay"},
	ApplicationCall: intLit{value: 6, name: "appl"},
}

// =============================================================================

// binary represents an operator over two values.
type binary struct {
	op   string
	arg  Type
	ret  Type
	l, r Expr
}

func (e binary) Type() Type { return e.ret }

func (e binary) compile(c *compiler) error {
	arg := e.arg
	if arg == TypeAny && e.l != nil && e.r != nil {
		lt, rt := e.l.Type(), e.r.Type()
		if lt != TypeAny && rt != TypeAny && lt != rt {
			return &CompileError{Op: e.op, Err: fmt.Errorf("%w: %s %s %s", ErrTypeMismatch, lt, e.op, rt)}
		}
	}
	if err := c.child(e.op, arg, e.l); err != nil {
		return err
	}
	if err := c.child(e.op, arg, e.r); err != nil {
		return err
	}
	c.emit(e.op)
	return nil
}

// Eq compares two values of the same type for equality.
func Eq(l, r Expr) Expr { return binary{op: "==", arg: TypeAny, ret: TypeUint64, l: l, r: r} }

// Neq compares two values of the same type for inequality.
func Neq(l, r Expr) Expr { return binary{op: "!=", arg: TypeAny, ret: TypeUint64, l: l, r: r} }

// Gt checks l > r.
func Gt(l, r Expr) Expr { return binary{op: ">", arg: TypeUint64, ret: TypeUint64, l: l, r: r} }

// Lt checks l < r.
func Lt(l, r Expr) Expr { return binary{op: "<", arg: TypeUint64, ret: TypeUint64, l: l, r: r} }

// Plus adds two integers. Overflow fails the program.
func Plus(l, r Expr) Expr { return binary{op: "+", arg: TypeUint64, ret: TypeUint64, l: l, r: r} }

// Minus subtracts r from l. Underflow fails the program.
func Minus(l, r Expr) Expr { return binary{op: "-", arg: TypeUint64, ret: TypeUint64, l: l, r: r} }

// nary represents a logical operator folded over its arguments.
type nary struct {
	op   string
	args []Expr
}

func (e nary) Type() Type { return TypeUint64 }

func (e nary) compile(c *compiler) error {
	if len(e.args) == 0 {
		return &CompileError{Op: e.op, Err: fmt.Errorf("%w: needs at least one argument", ErrInvalidArgs)}
	}
	for i, arg := range e.args {
		if err := c.child(e.op, TypeUint64, arg); err != nil {
			return err
		}
		if i > 0 {
			c.emit(e.op)
		}
	}
	return nil
}

// And is true when every argument is non-zero.
func And(args ...Expr) Expr { return nary{op: "&&", args: args} }

// Or is true when any argument is non-zero.
func Or(args ...Expr) Expr { return nary{op: "||", args: args} }

// not represents logical negation.
type not struct {
	arg Expr
}

// Not is true when the argument is zero.
func Not(arg Expr) Expr { return not{arg: arg} }

func (e not) Type() Type { return TypeUint64 }

func (e not) compile(c *compiler) error {
	if err := c.child("!", TypeUint64, e.arg); err != nil {
		return err
	}
	c.emit("!")
	return nil
}

// =============================================================================

// globalGet reads a key from the application's global state.
type globalGet struct {
	key Expr
}

// AppGlobalGet reads a key from the application's global state. A missing
// key reads as zero.
func AppGlobalGet(key Expr) Expr { return globalGet{key: key} }

func (e globalGet) Type() Type { return TypeAny }

func (e globalGet) compile(c *compiler) error {
	if err := c.requireMode("app_global_get", ModeApplication); err != nil {
		return err
	}
	if err := c.child("app_global_get", TypeBytes, e.key); err != nil {
		return err
	}
	c.emit("app_global_get")
	return nil
}

// globalPut writes a key into the application's global state.
type globalPut struct {
	key   Expr
	value Expr
}

// AppGlobalPut writes a key into the application's global state.
func AppGlobalPut(key Expr, value Expr) Expr { return globalPut{key: key, value: value} }

func (e globalPut) Type() Type { return TypeNone }

func (e globalPut) compile(c *compiler) error {
	if err := c.requireMode("app_global_put", ModeApplication); err != nil {
		return err
	}
	if err := c.child("app_global_put", TypeBytes, e.key); err != nil {
		return err
	}
	if err := c.child("app_global_put", TypeAny, e.value); err != nil {
		return err
	}
	c.emit("app_global_put")
	return nil
}

// =============================================================================

// ScratchVar is a program local variable held in a scratch slot. Slots are
// assigned in order of first use during compilation.
type ScratchVar struct {
	typ Type
}

// NewScratchVar constructs a scratch variable holding values of the type.
func NewScratchVar(typ Type) *ScratchVar {
	return &ScratchVar{typ: typ}
}

// Store writes the value of the expression into the variable.
func (sv *ScratchVar) Store(value Expr) Expr {
	return scratchStore{sv: sv, value: value}
}

// Load reads the variable.
func (sv *ScratchVar) Load() Expr {
	return scratchLoad{sv: sv}
}

type scratchStore struct {
	sv    *ScratchVar
	value Expr
}

func (e scratchStore) Type() Type { return TypeNone }

func (e scratchStore) compile(c *compiler) error {
	if err := c.child("store", e.sv.typ, e.value); err != nil {
		return err
	}
	c.emit(fmt.Sprintf("store %d", c.slot(e.sv)))
	return nil
}

type scratchLoad struct {
	sv *ScratchVar
}

func (e scratchLoad) Type() Type { return e.sv.typ }

func (e scratchLoad) compile(c *compiler) error {
	c.emit(fmt.Sprintf("load %d", c.slot(e.sv)))
	return nil
}
