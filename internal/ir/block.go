package ir

type Block struct {
	ID     BlockID
	Params []Value
	Instrs []Instr
	Term   Terminator
	Preds  []BlockID
	// Sealed blocks accept no new predecessors.
	Sealed bool
}

func (b *Block) Terminated() bool {
	if b == nil {
		return true
	}
	return b.Term.Kind != TermNone
}
