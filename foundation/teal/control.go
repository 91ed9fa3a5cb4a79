package teal

import "fmt"

// seq evaluates expressions in order.
type seq struct {
	exprs []Expr
}

// Seq evaluates the expressions in order. Every expression but the last must
// leave nothing on the stack.
func Seq(exprs ...Expr) Expr {
	return seq{exprs: exprs}
}

func (e seq) Type() Type {
	if len(e.exprs) == 0 {
		return TypeNone
	}
	return e.exprs[len(e.exprs)-1].Type()
}

func (e seq) compile(c *compiler) error {
	for i, expr := range e.exprs {
		want := TypeNone
		if i == len(e.exprs)-1 {
			if expr == nil {
				return &CompileError{Op: "seq", Err: fmt.Errorf("%w: missing expression", ErrInvalidArgs)}
			}
			want = expr.Type()
		}
		if err := c.child("seq", want, expr); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================

// ret ends the program with the value of the expression.
type ret struct {
	value Expr
}

// Return ends the program. A non-zero value approves.
func Return(value Expr) Expr {
	return ret{value: value}
}

// Approve ends the program successfully.
func Approve() Expr {
	return ret{value: Int(1)}
}

// Reject ends the program unsuccessfully.
func Reject() Expr {
	return ret{value: Int(0)}
}

func (e ret) Type() Type { return TypeNone }

func (e ret) compile(c *compiler) error {
	if err := c.child("return", TypeUint64, e.value); err != nil {
		return err
	}
	c.emit("return")
	return nil
}

// =============================================================================

// ifExpr branches on a condition.
type ifExpr struct {
	cond Expr
	then Expr
	els  Expr
}

// If evaluates then when cond is non-zero. At most one else expression may
// be provided and it must produce the same type as then.
func If(cond Expr, then Expr, els ...Expr) Expr {
	e := ifExpr{cond: cond, then: then}
	if len(els) > 0 {
		e.els = els[0]
	}
	return e
}

func (e ifExpr) Type() Type {
	if e.then == nil {
		return TypeNone
	}
	return e.then.Type()
}

func (e ifExpr) compile(c *compiler) error {
	if err := c.child("if", TypeUint64, e.cond); err != nil {
		return err
	}

	if e.els == nil {
		if err := c.check("if", TypeNone, e.then); err != nil {
			return err
		}

		end := c.newLabel()
		c.emit("bz " + end)
		if err := e.then.compile(c); err != nil {
			return err
		}
		c.place(end)
		return nil
	}

	if e.then == nil || e.then.Type() != e.els.Type() {
		return &CompileError{Op: "if", Err: fmt.Errorf("%w: branches differ", ErrTypeMismatch)}
	}

	els := c.newLabel()
	end := c.newLabel()

	c.emit("bz " + els)
	if err := e.then.compile(c); err != nil {
		return err
	}
	if !c.terminated() {
		c.emit("b " + end)
	}
	c.place(els)
	if err := e.els.compile(c); err != nil {
		return err
	}
	c.place(end)
	return nil
}

// =============================================================================

// Branch is one arm of a Cond.
type Branch struct {
	Cond Expr
	Body Expr
}

// condExpr evaluates the body of the first branch whose condition holds.
type condExpr struct {
	branches []Branch
}

// Cond evaluates the body of the first branch whose condition is non-zero.
// If no condition holds the program fails.
func Cond(branches ...Branch) Expr {
	return condExpr{branches: branches}
}

func (e condExpr) Type() Type {
	if len(e.branches) == 0 || e.branches[0].Body == nil {
		return TypeNone
	}
	return e.branches[0].Body.Type()
}

func (e condExpr) compile(c *compiler) error {
	if len(e.branches) == 0 {
		return &CompileError{Op: "cond", Err: fmt.Errorf("%w: needs at least one branch", ErrInvalidArgs)}
	}

	want := e.Type()
	labels := make([]string, len(e.branches))

	for i, br := range e.branches {
		if err := c.child("cond", TypeUint64, br.Cond); err != nil {
			return err
		}
		labels[i] = c.newLabel()
		c.emit("bnz " + labels[i])
	}
	c.emit("err")

	end := c.newLabel()
	var jumped bool

	for i, br := range e.branches {
		c.place(labels[i])
		if err := c.child("cond", want, br.Body); err != nil {
			return err
		}
		if i < len(e.branches)-1 && !c.terminated() {
			c.emit("b " + end)
			jumped = true
		}
	}

	if jumped {
		c.place(end)
	}

	return nil
}
