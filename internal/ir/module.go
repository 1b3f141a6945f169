package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Linkage says where a declared function comes from.
type Linkage uint8

const (
	// LinkageImport is provided by the runtime symbol table.
	LinkageImport Linkage = iota
	// LinkageLocal is defined in this module and not visible outside.
	LinkageLocal
	// LinkageExport is defined in this module and callable by the host.
	LinkageExport
)

func (l Linkage) String() string {
	switch l {
	case LinkageImport:
		return "import"
	case LinkageLocal:
		return "local"
	case LinkageExport:
		return "export"
	}
	return "?"
}

// Decl is a module-level function declaration.
type Decl struct {
	Name    string
	Linkage Linkage
	Sig     Signature
}

// DataObject is a read-only byte blob, e.g. a NUL-terminated string literal.
type DataObject struct {
	Name  string
	Bytes []byte
}

// Module collects declarations, function bodies and data objects of one
// compilation unit.
type Module struct {
	Name  string
	Decls []Decl
	Funcs []*Func // parallel to Decls; nil until defined
	Data  []DataObject
}

func NewModule(name string) *Module {
	return &Module{Name: name}
}

// DeclareFunction registers name with the given signature. Declaring the same
// name twice with an identical signature and linkage returns the first id.
func (m *Module) DeclareFunction(name string, linkage Linkage, sig Signature) (FuncID, error) {
	if id, ok := m.FuncByName(name); ok {
		d := m.Decls[id]
		if d.Linkage != linkage || !d.Sig.Equal(sig) {
			return NoFuncID, fmt.Errorf("incompatible redeclaration of %q", name)
		}
		return id, nil
	}
	idx, err := safecast.Conv[uint32](len(m.Decls))
	if err != nil {
		return NoFuncID, fmt.Errorf("too many functions: %w", err)
	}
	m.Decls = append(m.Decls, Decl{Name: name, Linkage: linkage, Sig: sig})
	m.Funcs = append(m.Funcs, nil)
	return FuncID(idx), nil
}

// DeclareData stores a copy of data and returns its id.
func (m *Module) DeclareData(name string, data []byte) (DataID, error) {
	idx, err := safecast.Conv[uint32](len(m.Data))
	if err != nil {
		return 0, fmt.Errorf("too many data objects: %w", err)
	}
	m.Data = append(m.Data, DataObject{Name: name, Bytes: append([]byte(nil), data...)})
	return DataID(idx), nil
}

// DefineFunction attaches a finalized body to a declared function.
func (m *Module) DefineFunction(id FuncID, f *Func) error {
	d := m.Decl(id)
	switch {
	case d == nil:
		return fmt.Errorf("define: unknown function id %d", id)
	case f == nil:
		return fmt.Errorf("define %s: nil body", d.Name)
	case d.Linkage == LinkageImport:
		return fmt.Errorf("define %s: function is imported", d.Name)
	case m.Funcs[id] != nil:
		return fmt.Errorf("define %s: already defined", d.Name)
	case !d.Sig.Equal(f.Sig):
		return fmt.Errorf("define %s: body signature does not match declaration", d.Name)
	}
	f.ID = id
	f.Name = d.Name
	m.Funcs[id] = f
	return nil
}

func (m *Module) Decl(id FuncID) *Decl {
	if m == nil || int(id) >= len(m.Decls) {
		return nil
	}
	return &m.Decls[id]
}

// Func returns the body of id, nil for imports and undefined functions.
func (m *Module) Func(id FuncID) *Func {
	if m == nil || int(id) >= len(m.Funcs) {
		return nil
	}
	return m.Funcs[id]
}

func (m *Module) FuncByName(name string) (FuncID, bool) {
	for i := range m.Decls {
		if m.Decls[i].Name == name {
			return FuncID(i), true // #nosec G115 -- len(Decls) checked in DeclareFunction
		}
	}
	return NoFuncID, false
}
