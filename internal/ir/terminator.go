package ir

type TermKind uint8

const (
	TermNone TermKind = iota
	TermJump
	TermBrif
	TermReturn
)

type Terminator struct {
	Kind TermKind

	Jump   JumpTerm
	Brif   BrifTerm
	Return ReturnTerm
}

type JumpTerm struct {
	Target BlockID
}

// BrifTerm branches to Then when Cond is non-zero.
type BrifTerm struct {
	Cond Value
	Then BlockID
	Else BlockID
}

type ReturnTerm struct {
	Values []Value
}

// Successors lists the blocks control can reach from t.
func (t *Terminator) Successors() []BlockID {
	switch t.Kind {
	case TermJump:
		return []BlockID{t.Jump.Target}
	case TermBrif:
		return []BlockID{t.Brif.Then, t.Brif.Else}
	}
	return nil
}
