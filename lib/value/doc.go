// Package value implements the runtime value model: scalars, lazy streams and the
// shared mutable containers (Dict, List, Struct, Scope) that the serialization
// engine persists with their sharing and cycle structure intact.
//
// Container handles are cheap to copy. Every copy of a handle aliases the same
// lock guarded storage, and the identity of a container is the identity of that
// storage (see Shared). Operations lock the storage for exactly one logical step
// and never hold the lock while calling into another container.
//
// Equality, hashing, rendering and struct typing recurse into the elements of
// containers and track the containers on the current path, so they terminate
// on cyclic graphs. A container reached again renders as "<cycle kind#id>",
// hashes as a per kind constant and, for Struct.Type, types as StructType().
// Two graphs are equal if they cannot be told apart by walking them in
// lockstep. Hash agrees with Equal on acyclic graphs. Scopes compare, hash and
// render by identity.
package value
