// Package model defines the typed trace records produced from a strace
// log and their wire encodings (JSON, msgpack, YAML).
//
// Both TraceLine and Argument are closed sets: only the types declared in
// this package implement them. Encoders switch over the concrete types and
// treat anything else as a programming error.
package model
