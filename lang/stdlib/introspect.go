package stdlib

import (
	"fmt"

	"github.com/mna/wisp/lang/values"
)

var typeFunc = &values.NativeFunction{
	Name: "type",
	Spec: required("x"),
	Fn: func(args []values.Value) (values.Value, error) {
		return values.String(args[0].Type()), nil
	},
}

// reprFunc renders x the way it would appear nested inside a list or map
// literal (a string gets its quotes back), as opposed to str's plain
// display form.
var reprFunc = &values.NativeFunction{
	Name: "repr",
	Spec: required("x"),
	Fn: func(args []values.Value) (values.Value, error) {
		if s, ok := args[0].(values.String); ok {
			return values.String(fmt.Sprintf("%q", string(s))), nil
		}
		return values.String(args[0].String()), nil
	},
}
