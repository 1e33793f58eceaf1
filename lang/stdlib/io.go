package stdlib

import (
	"fmt"
	"io"
	"os"

	"github.com/mna/wisp/lang/values"
)

// Stdout is where printFunc writes; an embedder (or a test) may redirect it
// before constructing Globals, mirroring the host-writer hooks many
// embeddable interpreters expose for their print built-in.
var Stdout io.Writer = os.Stdout

var printFunc = &values.NativeFunction{
	Name: "print",
	Spec: values.ArgSpec{Variadic: "args"},
	Fn: func(args []values.Value) (values.Value, error) {
		parts := args[0].(*values.List).Elems()
		for i, v := range parts {
			if i > 0 {
				fmt.Fprint(Stdout, " ")
			}
			fmt.Fprint(Stdout, v.String())
		}
		fmt.Fprintln(Stdout)
		return values.TheNil, nil
	},
}
