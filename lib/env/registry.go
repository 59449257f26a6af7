package env

import (
	"sort"
	"strings"

	"github.com/ValentinKolb/vgraph/lib/value"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var plog = logger.GetLogger("env")

// Separator joins the segments of a full name.
const Separator = ":"

// Registry maps full names (e.g. "global:len") to values.
//
// Thread-safety: All methods are safe for concurrent use.
type Registry struct {
	entries *xsync.MapOf[string, value.Value]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: xsync.NewMapOf[string, value.Value]()}
}

// Join returns the full name of a path.
func Join(path []string) string {
	return strings.Join(path, Separator)
}

// Declare registers v under path. It fails if the name is taken.
func (r *Registry) Declare(path []string, v value.Value) error {
	if len(path) == 0 {
		return value.ArgumentError("empty name")
	}
	name := Join(path)
	if _, loaded := r.entries.LoadOrStore(name, v); loaded {
		return value.ArgumentError("%s is already declared", name)
	}
	plog.Debugf("declared %s (%s)", name, v.Kind())
	return nil
}

// DeclareCommand registers a command under its own full name.
func (r *Registry) DeclareCommand(cmd value.Command) error {
	return r.Declare(cmd.Path(), cmd)
}

// Set registers v under path, replacing a previous value.
func (r *Registry) Set(path []string, v value.Value) {
	r.entries.Store(Join(path), v)
}

// Remove removes path and returns the value it held.
func (r *Registry) Remove(path []string) (value.Value, bool) {
	return r.entries.LoadAndDelete(Join(path))
}

// Lookup returns the value registered under path.
func (r *Registry) Lookup(path []string) (value.Value, bool) {
	return r.entries.Load(Join(path))
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return r.entries.Size()
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.entries.Size())
	r.entries.Range(func(name string, _ value.Value) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
