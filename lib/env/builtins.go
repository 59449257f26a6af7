package env

import (
	"strings"

	"github.com/ValentinKolb/vgraph/lib/value"
)

// Default returns a registry holding the built-in commands:
//
//	global:len     number of items of a string, binary, list, dict, struct or table
//	global:typeof  type of a value
//	global:echo    arguments joined by spaces
func Default() *Registry {
	r := NewRegistry()
	for _, cmd := range builtins() {
		// names are unique, Declare can not fail
		_ = r.DeclareCommand(cmd)
	}
	return r
}

func builtins() []value.Command {
	return []value.Command{
		value.NewCommand([]string{"global", "len"}, "len value:any", "Return the number of items in a value", builtinLen),
		value.NewCommand([]string{"global", "typeof"}, "typeof value:any", "Return the type of a value", builtinTypeOf),
		value.NewCommand([]string{"global", "echo"}, "echo @values:any", "Render the arguments", builtinEcho),
	}
}

func builtinLen(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, value.ArgumentError("len expects 1 argument, got %d", len(args))
	}
	var n int
	switch v := args[0].(type) {
	case value.String:
		n = len([]rune(string(v)))
	case value.Binary:
		n = v.Len()
	case value.List:
		n = v.Len()
	case value.Dict:
		n = v.Len()
	case value.Struct:
		n = v.Len()
	case value.Table:
		n = v.Len()
	default:
		return nil, value.ArgumentError("len is not defined for %s", args[0].Kind())
	}
	return value.NewInteger(int64(n)), nil
}

func builtinTypeOf(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, value.ArgumentError("typeof expects 1 argument, got %d", len(args))
	}
	return args[0].Type(), nil
}

func builtinEcho(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return value.String(strings.Join(parts, " ")), nil
}
