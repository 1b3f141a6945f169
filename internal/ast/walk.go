package ast

// Children returns the direct sub-expressions of id in source order.
func (e *Exprs) Children(id ExprID) []ExprID {
	expr := e.Get(id)
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case ExprCall:
		c, _ := e.Call(id)
		return c.Args
	case ExprList:
		l, _ := e.List(id)
		return l.Elems
	case ExprBinary:
		b, _ := e.Binary(id)
		return []ExprID{b.Left, b.Right}
	case ExprGroup:
		g, _ := e.Group(id)
		return []ExprID{g.Inner}
	case ExprAssign, ExprReassign:
		a, _ := e.Assign(id)
		return []ExprID{a.Value}
	case ExprIf:
		n, _ := e.If(id)
		out := append([]ExprID{n.Cond}, n.Body...)
		out = append(out, n.Elifs...)
		if n.Else.IsValid() {
			out = append(out, n.Else)
		}
		return out
	case ExprElif:
		n, _ := e.Elif(id)
		return append([]ExprID{n.Cond}, n.Body...)
	case ExprElse:
		n, _ := e.Else(id)
		return n.Body
	case ExprWhile:
		n, _ := e.While(id)
		return append([]ExprID{n.Cond}, n.Body...)
	}
	return nil
}

// Walk visits id and its descendants depth-first. Returning false from fn
// skips the children of that node.
func (e *Exprs) Walk(id ExprID, fn func(ExprID, *Expr) bool) {
	expr := e.Get(id)
	if expr == nil {
		return
	}
	if !fn(id, expr) {
		return
	}
	for _, child := range e.Children(id) {
		e.Walk(child, fn)
	}
}
