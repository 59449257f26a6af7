// Package convert bridges JSON and YAML documents to the value model.
//
// Imports map null to Empty, objects to structs (keeping key order), integral
// numbers to Integer and other numbers to Float. Arrays become typed lists
// when all items share a type, tables when all items are structs with the
// same fields, and lists of Any otherwise. An empty array becomes Empty.
//
// Exports reverse the mapping. Streams are materialized first, a Dict becomes
// an object with stringified keys, a Table an array of objects and a Scope an
// object of its members. A value graph with a cycle cannot be exported.
package convert
