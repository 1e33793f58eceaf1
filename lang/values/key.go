package values

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Key is the hashable, totally-ordered projection of a Value used as a map
// or set element, per spec.md §3. It is a plain comparable struct (not an
// interface holding slices) so it satisfies the `comparable` constraint
// swiss.Map's generic index requires; composite keys (List, Set) are
// folded into a canonical string encoding rather than kept as nested
// slices, which would make Key uncomparable.
type Key struct {
	kind keyKind
	b    bool
	bits uint64 // NumberBits: math.Float64bits, so distinct NaNs stay distinct
	str  string // String payload, or the canonical encoding of a composite key
}

type keyKind uint8

const (
	kindNil keyKind = iota
	kindBool
	kindNumber
	kindString
	kindList
	kindSet
)

// ToKey converts v into its Key projection. Values with no Key projection
// (functions, modules, handles, ...) return a TypeError.
func ToKey(v Value) (Key, error) {
	switch x := v.(type) {
	case Nil:
		return Key{kind: kindNil}, nil
	case Bool:
		return Key{kind: kindBool, b: bool(x)}, nil
	case Number:
		return Key{kind: kindNumber, bits: math.Float64bits(float64(x))}, nil
	case String:
		return Key{kind: kindString, str: string(x)}, nil
	case *List:
		parts := make([]string, len(x.elems))
		for i, e := range x.elems {
			k, err := ToKey(e)
			if err != nil {
				return Key{}, err
			}
			parts[i] = k.encode()
		}
		return Key{kind: kindList, str: joinNetstrings(parts)}, nil
	case *Set:
		values := x.liveValues()
		parts := make([]string, 0, len(values))
		for _, e := range values {
			k, err := ToKey(e)
			if err != nil {
				return Key{}, err
			}
			parts = append(parts, k.encode())
		}
		sort.Strings(parts)
		return Key{kind: kindSet, str: joinNetstrings(parts)}, nil
	default:
		return Key{}, Newf(TypeErrorKind, "unhashable type: %s", v.Type())
	}
}

// encode renders k as a self-delimiting string suitable for nesting inside
// a composite key's canonical encoding.
func (k Key) encode() string {
	switch k.kind {
	case kindNil:
		return "n"
	case kindBool:
		if k.b {
			return "bt"
		}
		return "bf"
	case kindNumber:
		return "f" + strconv.FormatUint(k.bits, 16)
	case kindString:
		return "s" + k.str
	case kindList:
		return "l" + k.str
	case kindSet:
		return "e" + k.str
	default:
		return "?"
	}
}

func joinNetstrings(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		fmt.Fprintf(&b, "%d:%s", len(p), p)
	}
	return b.String()
}

// NumberBits returns k's bit pattern when k is a number key.
func (k Key) NumberBits() (uint64, bool) {
	if k.kind != kindNumber {
		return 0, false
	}
	return k.bits, true
}

// Less implements a total order over keys of possibly-differing kinds
// (kind order first, then payload). Map and Set iteration follow insertion
// order and do not use it.
func (k Key) Less(other Key) bool {
	if k.kind != other.kind {
		return k.kind < other.kind
	}
	switch k.kind {
	case kindBool:
		return !k.b && other.b
	case kindNumber:
		return k.bits < other.bits
	default:
		return k.str < other.str
	}
}
