package teal_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/algoapps/foundation/teal"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

const benefactor = "UFAGBH5BHBAKDSSSBKP6LAZ7VFIA3ETNK7LVNEH6KXRRNTYE6WYHTEMEGU"

// =============================================================================

func Test_Render(t *testing.T) {
	type table struct {
		name string
		expr teal.Expr
		mode teal.Mode
		exp  string
	}

	count := teal.NewScratchVar(teal.TypeUint64)

	tt := []table{
		{
			name: "approve",
			expr: teal.Approve(),
			mode: teal.ModeApplication,
			exp:  "#pragma version 5\nint 1\nreturn\n",
		},
		{
			name: "and",
			expr: teal.And(
				teal.Eq(teal.Txn.TypeEnum(), teal.TxnType.Payment),
				teal.Eq(teal.Txn.Receiver(), teal.Addr(benefactor)),
				teal.Eq(teal.Global.GroupSize(), teal.Int(1)),
			),
			mode: teal.ModeSignature,
			exp: "#pragma version 5\n" +
				"txn TypeEnum\nint pay\n==\n" +
				"txn Receiver\naddr " + benefactor + "\n==\n&&\n" +
				"global GroupSize\nint 1\n==\n&&\n",
		},
		{
			name: "if",
			expr: teal.Seq(
				count.Store(teal.AppGlobalGet(teal.Bytes("Count"))),
				teal.If(teal.Gt(count.Load(), teal.Int(0)),
					teal.AppGlobalPut(teal.Bytes("Count"), teal.Minus(count.Load(), teal.Int(1))),
				),
				teal.Approve(),
			),
			mode: teal.ModeApplication,
			exp: "#pragma version 5\n" +
				"byte \"Count\"\napp_global_get\nstore 0\n" +
				"load 0\nint 0\n>\nbz main_l1\n" +
				"byte \"Count\"\nload 0\nint 1\n-\napp_global_put\n" +
				"main_l1:\nint 1\nreturn\n",
		},
		{
			name: "cond",
			expr: teal.Cond(
				teal.Branch{Cond: teal.Eq(teal.Txn.ApplicationID(), teal.Int(0)), Body: teal.Approve()},
				teal.Branch{Cond: teal.Eq(teal.Txn.OnCompletion(), teal.OnComplete.OptIn), Body: teal.Reject()},
			),
			mode: teal.ModeApplication,
			exp: "#pragma version 5\n" +
				"txn ApplicationID\nint 0\n==\nbnz main_l1\n" +
				"txn OnCompletion\nint OptIn\n==\nbnz main_l2\n" +
				"err\n" +
				"main_l1:\nint 1\nreturn\n" +
				"main_l2:\nint 0\nreturn\n",
		},
		{
			name: "or",
			expr: teal.Or(
				teal.Eq(teal.Txn.TypeEnum(), teal.TxnType.ApplicationCall),
				teal.Not(teal.Lt(teal.Txn.NumAppArgs(), teal.Int(1))),
			),
			mode: teal.ModeApplication,
			exp: "#pragma version 5\n" +
				"txn TypeEnum\nint appl\n==\n" +
				"txn NumAppArgs\nint 1\n<\n!\n||\n",
		},
		{
			name: "neq",
			expr: teal.And(
				teal.Neq(teal.Txn.Sender(), teal.Addr(benefactor)),
				teal.Lt(teal.Txn.Amount(), teal.Int(100000)),
			),
			mode: teal.ModeSignature,
			exp: "#pragma version 5\n" +
				"txn Sender\naddr " + benefactor + "\n!=\n" +
				"txn Amount\nint 100000\n<\n&&\n",
		},
		{
			name: "bytes",
			expr: teal.Return(teal.Eq(teal.Txn.ApplicationArgs(0), teal.Bytes("a\"b"))),
			mode: teal.ModeApplication,
			exp:  "#pragma version 5\ntxna ApplicationArgs 0\nbyte 0x612262\n==\nreturn\n",
		},
	}

	t.Log("Given the need to render contract expressions.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling the %s expression.", testID, tst.name)
				{
					src, err := teal.Compile(tst.expr, tst.mode, 5)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to compile the expression: %s", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to compile the expression.", success, testID)

					if src != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot:\n%s", failed, testID, src)
						t.Logf("\t%s\tTest %d:\texp:\n%s", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get back the expected source.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the expected source.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_CondJumps(t *testing.T) {
	expr := teal.Seq(
		teal.Cond(
			teal.Branch{Cond: teal.Int(1), Body: teal.AppGlobalPut(teal.Bytes("k"), teal.Int(1))},
			teal.Branch{Cond: teal.Int(0), Body: teal.AppGlobalPut(teal.Bytes("k"), teal.Int(2))},
		),
		teal.Approve(),
	)

	src, err := teal.Compile(expr, teal.ModeApplication, 5)
	if err != nil {
		t.Fatalf("Should be able to compile the expression: %s", err)
	}

	exp := "#pragma version 5\n" +
		"int 1\nbnz main_l1\nint 0\nbnz main_l2\nerr\n" +
		"main_l1:\nbyte \"k\"\nint 1\napp_global_put\nb main_l3\n" +
		"main_l2:\nbyte \"k\"\nint 2\napp_global_put\n" +
		"main_l3:\nint 1\nreturn\n"

	if src != exp {
		t.Logf("got:\n%s", src)
		t.Logf("exp:\n%s", exp)
		t.Fatalf("Should jump past the remaining branches.")
	}
}

func Test_CompileErrors(t *testing.T) {
	type table struct {
		name    string
		expr    teal.Expr
		mode    teal.Mode
		version int
		err     error
	}

	tt := []table{
		{
			name:    "version",
			expr:    teal.Approve(),
			mode:    teal.ModeApplication,
			version: 1,
			err:     teal.ErrInvalidVersion,
		},
		{
			name:    "mismatch",
			expr:    teal.Return(teal.Eq(teal.Txn.Receiver(), teal.Int(1))),
			mode:    teal.ModeSignature,
			version: 5,
			err:     teal.ErrTypeMismatch,
		},
		{
			name:    "return-bytes",
			expr:    teal.Return(teal.Bytes("x")),
			mode:    teal.ModeApplication,
			version: 5,
			err:     teal.ErrTypeMismatch,
		},
		{
			name:    "seq-value",
			expr:    teal.Seq(teal.Int(1), teal.Approve()),
			mode:    teal.ModeApplication,
			version: 5,
			err:     teal.ErrTypeMismatch,
		},
		{
			name:    "state-in-signature",
			expr:    teal.Seq(teal.AppGlobalPut(teal.Bytes("k"), teal.Int(1)), teal.Approve()),
			mode:    teal.ModeSignature,
			version: 5,
			err:     teal.ErrInvalidMode,
		},
		{
			name:    "address",
			expr:    teal.Eq(teal.Txn.Receiver(), teal.Addr("NOTANADDRESS")),
			mode:    teal.ModeSignature,
			version: 5,
			err:     teal.ErrInvalidAddress,
		},
		{
			name:    "empty-cond",
			expr:    teal.Cond(),
			mode:    teal.ModeApplication,
			version: 5,
			err:     teal.ErrInvalidArgs,
		},
	}

	t.Log("Given the need to reject invalid contract expressions.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling the %s expression.", testID, tst.name)
				{
					_, err := teal.Compile(tst.expr, tst.mode, tst.version)
					if !errors.Is(err, tst.err) {
						t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, err)
						t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.err)
						t.Fatalf("\t%s\tTest %d:\tShould get back the expected error.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the expected error.", success, testID)

					var ce *teal.CompileError
					if !errors.As(err, &ce) {
						t.Fatalf("\t%s\tTest %d:\tShould get back a compile error.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back a compile error.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
