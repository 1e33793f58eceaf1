package values

import "fmt"

// Param describes one parameter of an ArgSpec: its name, whether it has a
// compile-time constant default, and that default's value.
type Param struct {
	Name    string
	Default Value // nil if required
}

// ArgSpec is the shape of a callable's parameter list, per spec.md §4.4:
// required names, defaulted names with compile-time constant defaults, and
// an optional variadic tail collecting surplus positionals into a list.
type ArgSpec struct {
	Params   []Param
	Variadic string // parameter name receiving surplus positionals, or ""
}

// NParams returns the number of fixed (non-variadic) parameter slots.
func (a ArgSpec) NParams() int { return len(a.Params) }

// HasVariadic reports whether the spec declares a variadic tail parameter.
func (a ArgSpec) HasVariadic() bool { return a.Variadic != "" }

// Code is the compiled form of one scope (module or function body),
// produced by lang/compiler and interpreted by lang/machine. Its fields
// are declared here, rather than in lang/compiler, so that lang/values
// (the lowest layer) can express Function without importing the compiler.
type Code struct {
	Name    string
	Ops     []Op
	Marks   []Mark
	Params  ArgSpec
	NLocals int
	NFree   int
	NOwned  int
	// Consts holds the scalar constant pool referenced by OpPushNumber and
	// OpPushString via their B operand.
	Consts []Value
	// Nested holds the compiled prototypes of function literals (including
	// class methods) declared directly in this scope, referenced by
	// OpMakeFunction's B operand.
	Nested []*FuncProto
	// Classes holds the compiled prototypes of class statements declared
	// directly in this scope, referenced by OpMakeClass's B operand.
	Classes []*ClassProto

	// ParamSlots records, for each entry of Params.Params (followed by one
	// more entry for the variadic tail if Params.HasVariadic()), where the
	// machine must write the applied argument value: a name resolved to
	// Local by the annotator lands in locals, one resolved to Owned (because
	// a nested closure captures it) lands in the corresponding upval cell.
	// There is no opcode for parameter binding; the machine's set-args
	// frame operation uses this table directly at frame construction.
	ParamSlots []VarSlot

	// FreeNames and FreeMarks give, in VarSpec.Free order (matching the
	// first NFree upval slots), the name and declaration mark of each free
	// variable this scope resolves from its caller/environment: a module's
	// or REPL submission's builtins/persistent scope, or a nested function's
	// Free captures. OwnedNames gives, in VarSpec.Owned order (the upval
	// slots from NFree to NFree+NOwned), the name published under each
	// owned cell -- used to build a Module's or the REPL's cell map.
	FreeNames  []string
	FreeMarks  []Mark
	OwnedNames []string
}

// SlotKind distinguishes where a ParamSlots entry's value is written.
type SlotKind uint8

const (
	SlotLocal SlotKind = iota
	SlotUpval
)

// VarSlot is one ParamSlots entry.
type VarSlot struct {
	Kind  SlotKind
	Index int32
}

// Capture describes one entry of a nested function's free-variable list:
// the enclosing scope's own upvalue slot (already a *Cell, whether
// received from further out or owned by the enclosing scope itself)
// holding the cell to snapshot when OpMakeFunction builds the closure.
type Capture struct {
	Slot int32
}

// FuncProto is a compiled function prototype: the callee's own Code plus
// the list of enclosing-scope cells it captures, in VarSpec.Free order.
type FuncProto struct {
	Code        *Code
	Captures    []Capture
	IsGenerator bool
}

// ClassProto is a compiled class-statement prototype, referenced by
// OpMakeClass via its index into the enclosing Code's Classes table. At
// runtime the machine assembles a *Class by popping, in this order from
// the stack top down: one Function per MethodNames entry, then one value
// per StaticNames entry, then one value per FieldNames entry, then (if
// HasBase) the base class value. Emission pushes them in the reverse
// order: base, field defaults, static values, method functions.
type ClassProto struct {
	Name        string
	HasBase     bool
	FieldNames  []string
	StaticNames []string
	MethodNames []string
}

// Op is one bytecode instruction: a kind tag plus up to two integer
// operands, whose meaning depends on the kind (see lang/compiler).
type Op struct {
	Kind OpKind
	A, B int32
	// Str carries an opcode's string operand (attribute name, import path,
	// variable name for diagnostics), when applicable.
	Str string
}

// OpKind enumerates the opcode set of spec.md §4.2.
type OpKind uint8

const (
	OpPushNil OpKind = iota
	OpPushTrue
	OpPushFalse
	OpPushNumber // A unused; constant pulled from Consts[B]
	OpPushString // constant pulled from Consts[B]
	OpPushList   // A = element count
	OpPushMap    // A = pair count
	OpGetLocal   // A = slot
	OpSetLocal   // A = slot
	OpGetUpval   // A = slot
	OpSetUpval   // A = slot
	OpGetFree    // A = slot (alias of GetUpval retained for clarity at emit time)
	OpDup
	OpPop
	OpSwap
	OpBinary   // A = token.Token operator tag
	OpUnary    // A = token.Token operator tag
	OpAnd      // A = jump target if falsy (short-circuit)
	OpOr       // A = jump target if truthy (short-circuit)
	OpMakeFunction // B = index into enclosing Code's Nested table
	OpMakeClass    // B = index into enclosing Code's Classes table
	OpCall         // A = positional arg count, B = keyword arg count, Str = keyword names (NUL-joined)
	OpMethodCall   // A, B as OpCall; Str = method name + NUL + keyword names (NUL-joined)
	OpReturn
	OpYield
	OpJump         // A = target
	OpJumpIfFalse  // A = target
	OpJumpIfTrue   // A = target
	OpAttrGet      // Str = attribute name
	OpAttrSet      // Str = attribute name
	OpIndexGet
	OpIndexSet
	OpIterStart
	OpIterNextOrJump // A = jump target on exhaustion; B = number of loop vars to unpack
	OpRaise
	OpImport // Str = dotted module path
)

// Mark is the per-opcode source position vector entry, satisfying
// spec.md §3's invariant marks.len() == ops.len().
type Mark struct {
	Line, Col int
}

func (m Mark) String() string { return fmt.Sprintf("%d:%d", m.Line, m.Col) }

// Function is a user closure: compiled Code plus the cells captured at
// definition time (one per entry of the Code's VarSpec free list).
type Function struct {
	Code *Code
	Free []*Cell
	Name string
	// IsGenerator marks a def* function: calling it never runs its body,
	// instead constructing a Generator wrapping a not-yet-started frame.
	IsGenerator bool
}

func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Name) }
func (f *Function) Type() string   { return "function" }
func (f *Function) Truth() bool    { return true }

// NativeFunc is the Go implementation signature of a NativeFunction. It
// receives the already-applied flat positional vector (length
// Spec.NParams(), or one more with the variadic tail as a *List), not the
// caller's raw args/kwargs: argument application is shared by user and
// native functions alike, per spec.md §4.4.
type NativeFunc func(args []Value) (Value, error)

// NativeFunction is a host callback exposed to user code, with its own
// ArgSpec so the shared argument-application algorithm (spec.md §4.4)
// applies uniformly to native and user functions.
type NativeFunction struct {
	Name string
	Spec ArgSpec
	Fn   NativeFunc
}

func (f *NativeFunction) String() string { return fmt.Sprintf("<built-in function %s>", f.Name) }
func (f *NativeFunction) Type() string    { return "native_function" }
func (f *NativeFunction) Truth() bool     { return true }
