package bag

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Op is a primitive bag operation reachable through a convenience name.
type Op int

const (
	OpGet Op = iota
	OpSet
	OpHas
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpGet:
		return "get"
	case OpSet:
		return "set"
	case OpHas:
		return "has"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Invocation is a resolved convenience name.
type Invocation struct {
	Op  Op
	Key string
}

// prefixes are matched in order; long forms only apply when an upper-case
// rune follows, so remVendor still resolves to key "vendor".
var prefixes = []struct {
	name     string
	op       Op
	longForm bool
}{
	{"unset", OpRemove, true},
	{"remove", OpRemove, true},
	{"get", OpGet, false},
	{"set", OpSet, false},
	{"has", OpHas, false},
	{"uns", OpRemove, false},
	{"rem", OpRemove, false},
}

// Resolve parses a convenience name such as getUserName into an operation
// and a normalized key.
func (b *Bag) Resolve(name string) (Invocation, error) {
	method := strings.TrimSpace(name)

	for _, p := range prefixes {
		fragment, ok := strings.CutPrefix(method, p.name)
		if !ok {
			continue
		}
		if p.longForm && !startsUpper(fragment) {
			continue
		}
		if fragment == "" {
			break
		}
		return Invocation{Op: p.op, Key: b.normalizer.Normalize(fragment)}, nil
	}

	return Invocation{}, &MethodError{Method: method}
}

// Invoke runs a resolved invocation. Set uses the first argument as the
// value, or nil when none is given.
func (b *Bag) Invoke(inv Invocation, args ...any) any {
	switch inv.Op {
	case OpGet:
		return b.Get(inv.Key)
	case OpSet:
		var value any
		if len(args) > 0 {
			value = args[0]
		}
		b.Set(inv.Key, value)
	case OpHas:
		return b.Has(inv.Key)
	case OpRemove:
		b.Remove(inv.Key)
	}
	return nil
}

// Call resolves name and invokes it with args.
//
//	b.Call("setUserName", "ada") // b.Set("user_name", "ada")
//	b.Call("getUserName")        // b.Get("user_name")
func (b *Bag) Call(name string, args ...any) (any, error) {
	inv, err := b.Resolve(name)
	if err != nil {
		return nil, err
	}
	return b.Invoke(inv, args...), nil
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
