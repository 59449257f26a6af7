package value

import (
	"strings"
)

// CommandFunc implements a command.
type CommandFunc func(args []Value) (Value, error)

// Command is a callable value. Commands are identified by their full name path,
// e.g. ["global", "len"], which is also how they are persisted.
type Command struct {
	def *commandDef
}

type commandDef struct {
	path      []string
	signature string
	short     string
	fn        CommandFunc
}

// NewCommand creates a command.
func NewCommand(path []string, signature, short string, fn CommandFunc) Command {
	p := make([]string, len(path))
	copy(p, path)
	return Command{def: &commandDef{path: p, signature: signature, short: short, fn: fn}}
}

// Path returns the full name path.
func (c Command) Path() []string {
	p := make([]string, len(c.def.path))
	copy(p, c.def.path)
	return p
}

// FullName returns the path joined with ':'.
func (c Command) FullName() string { return strings.Join(c.def.path, ":") }

func (c Command) Signature() string { return c.def.signature }
func (c Command) Short() string { return c.def.short }

// Invoke calls the command.
func (c Command) Invoke(args ...Value) (Value, error) {
	if c.def.fn == nil {
		return nil, NewError(ErrCInternal, "command "+c.FullName()+" has no implementation")
	}
	return c.def.fn(args)
}

func (Command) Kind() Kind { return KindCommand }
func (Command) Type() ValueType { return CommandType }
func (c Command) String() string { return "<command " + c.FullName() + ">" }
func (c Command) Hash() uint64 { return hashString("cmd:" + c.FullName()) }
func (c Command) Materialize() Value { return c }

func (c Command) Equal(other Value) bool {
	o, ok := other.(Command)
	return ok && o.FullName() == c.FullName()
}
