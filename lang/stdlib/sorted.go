package stdlib

import (
	"sort"

	"github.com/mna/wisp/lang/machine"
	"github.com/mna/wisp/lang/values"
)

// sortedFunc returns a new list holding iterable's elements in ascending
// order, per machine.Compare's ordering (numbers and strings only).
var sortedFunc = &values.NativeFunction{
	Name: "sorted",
	Spec: required("iterable"),
	Fn: func(args []values.Value) (values.Value, error) {
		elems, err := elements(args[0])
		if err != nil {
			return nil, err
		}
		out := append([]values.Value(nil), elems...)
		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			cmp, err := machine.Compare(out[i], out[j])
			if err != nil {
				sortErr = err
				return false
			}
			return cmp < 0
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return values.NewList(out), nil
	},
}
