// Package serialization converts value graphs to arena documents and back.
//
// Serialize walks a value once. Shared containers (Dict, List, Struct, Scope)
// are emitted once per storage: the first visit reserves an arena index and
// records it before the children are walked, so every later visit (including
// one reached through a cycle) refers back to that index. Hashable scalars and
// types are interned. Deserialize reverses this, registering every container
// before populating it so that references back to it resolve to the same live
// object. Commands are stored by name and resolved through an Environment.
//
// A FileStore persists values through an afero filesystem.
package serialization
