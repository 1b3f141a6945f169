package ir

// Func is a defined function body.
type Func struct {
	ID     FuncID
	Name   string
	Sig    Signature
	Vars   []Type // indexed by Var
	Values []Type // indexed by Value
	Blocks []Block
	Entry  BlockID
}

// Block returns the block with the given id or nil.
func (f *Func) Block(id BlockID) *Block {
	if f == nil || int(id) >= len(f.Blocks) {
		return nil
	}
	return &f.Blocks[id]
}

// ValueType returns the type of v, TypeNone when v is out of range.
func (f *Func) ValueType(v Value) Type {
	if f == nil || int(v) >= len(f.Values) {
		return TypeNone
	}
	return f.Values[v]
}
