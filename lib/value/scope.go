package value

import (
	"strings"
	"sync"
)

// Scope is a lexical scope. Scopes form a graph: every scope may have a parent
// (the enclosing scope), a calling scope, a list of used scopes whose members
// are visible, and members that may themselves be scopes referencing back.
//
// Scopes compare, hash and render by identity.
type Scope struct {
	data *scopeStorage
}

type scopeStorage struct {
	id       uint64
	mu       sync.Mutex
	name     string
	parent   *scopeStorage
	calling  *scopeStorage
	uses     []*scopeStorage
	names    []string
	members  map[string]Value
	readOnly bool
	loop     bool
}

// NewScope creates a root scope without parent.
func NewScope(name string) Scope {
	return Scope{data: &scopeStorage{
		id:      nextStorageID(),
		name:    name,
		members: make(map[string]Value),
	}}
}

// CreateChild creates a scope whose parent and calling scope is s.
func (s Scope) CreateChild(name string, loop bool) Scope {
	c := NewScope(name)
	c.data.parent = s.data
	c.data.calling = s.data
	c.data.loop = loop
	return c
}

// CreateNamespace creates a child scope and declares it as member name of s.
func (s Scope) CreateNamespace(name string) (Scope, error) {
	ns := s.CreateChild(name, false)
	if err := s.Declare(name, ns); err != nil {
		return Scope{}, err
	}
	return ns, nil
}

// StorageID returns the identity of the scope.
func (s Scope) StorageID() uint64 { return s.data.id }

// Name returns the name of the scope.
func (s Scope) Name() string { return s.data.name }

// IsLoop reports whether the scope is the body of a loop.
func (s Scope) IsLoop() bool {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return s.data.loop
}

// SetLoop sets the loop flag.
func (s Scope) SetLoop(loop bool) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	s.data.loop = loop
}

// ReadOnly reports whether declarations are rejected.
func (s Scope) ReadOnly() bool {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return s.data.readOnly
}

// SetReadOnly sets the read-only flag.
func (s Scope) SetReadOnly(readOnly bool) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	s.data.readOnly = readOnly
}

func (s Scope) link(get func(*scopeStorage) *scopeStorage) (Scope, bool) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	p := get(s.data)
	if p == nil {
		return Scope{}, false
	}
	return Scope{data: p}, true
}

// Parent returns the enclosing scope.
func (s Scope) Parent() (Scope, bool) {
	return s.link(func(st *scopeStorage) *scopeStorage { return st.parent })
}

// Calling returns the scope the scope was called from.
func (s Scope) Calling() (Scope, bool) {
	return s.link(func(st *scopeStorage) *scopeStorage { return st.calling })
}

// SetParent sets the enclosing scope. A zero Scope clears it.
func (s Scope) SetParent(parent Scope) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	s.data.parent = parent.data
}

// SetCalling sets the calling scope. A zero Scope clears it.
func (s Scope) SetCalling(calling Scope) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	s.data.calling = calling.data
}

// Use makes the members of other visible in s.
func (s Scope) Use(other Scope) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	s.data.uses = append(s.data.uses, other.data)
}

// Uses returns the used scopes in the order they were added.
func (s Scope) Uses() []Scope {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	out := make([]Scope, len(s.data.uses))
	for i, u := range s.data.uses {
		out[i] = Scope{data: u}
	}
	return out
}

// Declare adds a new member. It fails if the scope is read-only or the member exists.
func (s Scope) Declare(name string, v Value) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if s.data.readOnly {
		return ArgumentError("scope %s is read only", s.data.name)
	}
	if _, ok := s.data.members[name]; ok {
		return ArgumentError("variable %s already exists", name)
	}
	s.data.names = append(s.data.names, name)
	s.data.members[name] = v
	return nil
}

// Redeclare adds or replaces a member.
func (s Scope) Redeclare(name string, v Value) error {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if s.data.readOnly {
		return ArgumentError("scope %s is read only", s.data.name)
	}
	if _, ok := s.data.members[name]; !ok {
		s.data.names = append(s.data.names, name)
	}
	s.data.members[name] = v
	return nil
}

// Remove removes a local member.
func (s Scope) Remove(name string) (Value, bool) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	v, ok := s.data.members[name]
	if !ok {
		return nil, false
	}
	delete(s.data.members, name)
	for i, n := range s.data.names {
		if n == name {
			s.data.names = append(s.data.names[:i], s.data.names[i+1:]...)
			break
		}
	}
	return v, true
}

// Members returns a snapshot of the local members in declaration order.
func (s Scope) Members() []Field {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	out := make([]Field, len(s.data.names))
	for i, n := range s.data.names {
		out[i] = Field{Name: n, Value: s.data.members[n]}
	}
	return out
}

// local looks a member up without following links. It also returns the
// scopes to search next: the used scopes (last used first) and the parent.
func (st *scopeStorage) local(name string) (Value, []*scopeStorage, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if v, ok := st.members[name]; ok {
		return v, nil, true
	}
	next := make([]*scopeStorage, 0, len(st.uses)+1)
	for i := len(st.uses) - 1; i >= 0; i-- {
		next = append(next, st.uses[i])
	}
	if st.parent != nil {
		next = append(next, st.parent)
	}
	return nil, next, false
}

// Get looks up a member in s, then in the used scopes, then in the parents.
func (s Scope) Get(name string) (Value, bool) {
	seen := map[*scopeStorage]struct{}{}
	queue := []*scopeStorage{s.data}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}
		v, next, ok := cur.local(name)
		if ok {
			return v, true
		}
		queue = append(next, queue...)
	}
	return nil, false
}

// Lookup resolves a member path. The first segment is looked up with Get,
// following segments are members of the scope or struct found so far.
func (s Scope) Lookup(path []string) (Value, bool) {
	if len(path) == 0 {
		return nil, false
	}
	v, ok := s.Get(path[0])
	for _, seg := range path[1:] {
		if !ok {
			return nil, false
		}
		switch c := v.(type) {
		case Scope:
			v, ok = c.Get(seg)
		case Struct:
			v, ok = c.Get(seg)
		default:
			return nil, false
		}
	}
	return v, ok
}

// ---- Value Methods ----

func (Scope) Kind() Kind { return KindScope }
func (Scope) Type() ValueType { return ScopeType }
func (s Scope) Hash() uint64 { return mix(s.data.id ^ hashSeed) }
func (s Scope) Materialize() Value { return s }

func (s Scope) String() string {
	var sb strings.Builder
	sb.WriteString("<scope ")
	sb.WriteString(s.data.name)
	sb.WriteByte('>')
	return sb.String()
}

func (s Scope) Equal(other Value) bool {
	o, ok := other.(Scope)
	return ok && o.data == s.data
}
