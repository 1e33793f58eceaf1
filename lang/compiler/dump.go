package compiler

import (
	"fmt"
	"strings"

	"github.com/mna/wisp/lang/values"
)

// opNames gives a disassembly mnemonic for every values.OpKind, in
// declaration order. Kept here (rather than on OpKind itself) since only
// the compiler's own test suite and debugging tools need a textual form.
var opNames = [...]string{
	values.OpPushNil:         "push_nil",
	values.OpPushTrue:        "push_true",
	values.OpPushFalse:       "push_false",
	values.OpPushNumber:      "push_number",
	values.OpPushString:      "push_string",
	values.OpPushList:        "push_list",
	values.OpPushMap:         "push_map",
	values.OpGetLocal:        "get_local",
	values.OpSetLocal:        "set_local",
	values.OpGetUpval:        "get_upval",
	values.OpSetUpval:        "set_upval",
	values.OpGetFree:         "get_free",
	values.OpDup:             "dup",
	values.OpPop:             "pop",
	values.OpSwap:            "swap",
	values.OpBinary:          "binary",
	values.OpUnary:           "unary",
	values.OpAnd:             "and",
	values.OpOr:              "or",
	values.OpMakeFunction:    "make_function",
	values.OpMakeClass:       "make_class",
	values.OpCall:            "call",
	values.OpMethodCall:      "method_call",
	values.OpReturn:          "return",
	values.OpYield:           "yield",
	values.OpJump:            "jump",
	values.OpJumpIfFalse:     "jump_if_false",
	values.OpJumpIfTrue:      "jump_if_true",
	values.OpAttrGet:         "attr_get",
	values.OpAttrSet:         "attr_set",
	values.OpIndexGet:        "index_get",
	values.OpIndexSet:        "index_set",
	values.OpIterStart:       "iter_start",
	values.OpIterNextOrJump:  "iter_next_or_jump",
	values.OpRaise:           "raise",
	values.OpImport:          "import",
}

// Dump renders code's opcode vector as a flat, deterministic listing (one
// instruction per line), recursing into every nested function and class
// method prototype. It exists for golden-file regression tests
// (internal/filetest) rather than any runtime path.
func Dump(code *values.Code) string {
	var b strings.Builder
	dumpCode(&b, code, "")
	return b.String()
}

func dumpCode(b *strings.Builder, code *values.Code, indent string) {
	fmt.Fprintf(b, "%sfunc %s locals=%d free=%d owned=%d\n", indent, code.Name, code.NLocals, code.NFree, code.NOwned)
	for i, op := range code.Ops {
		mnemonic := "?"
		if int(op.Kind) < len(opNames) {
			mnemonic = opNames[op.Kind]
		}
		fmt.Fprintf(b, "%s  %d: %s a=%d b=%d", indent, i, mnemonic, op.A, op.B)
		if op.Str != "" {
			fmt.Fprintf(b, " str=%q", op.Str)
		}
		b.WriteByte('\n')
	}
	for _, proto := range code.Nested {
		dumpCode(b, proto.Code, indent+"  ")
	}
	for _, cls := range code.Classes {
		fmt.Fprintf(b, "%s  class %s base=%v\n", indent, cls.Name, cls.HasBase)
	}
}
