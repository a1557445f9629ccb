// Package transform turns syntax trees of strace lines into model records.
//
// Conversion is bottom-up: argument subtrees first (Argument), then the
// call shapes (Syscall, Resumed, Signal, Alert), then the line itself
// (Line), which attaches the pid and timestamp. Every function is pure and
// safe to call from several goroutines on different lines.
//
// Malformed trees are reported as *ShapeError and a line body that is not
// a record as *ClassificationError; both abort the log. Nothing else
// fails: undecodable strings keep their raw text and a resumed tag that
// names no call yields a record with a nil name.
package transform
