// Package syntax is the contract between a strace grammar and the
// converter: a tree of rule-kind nodes whose children are either captured
// text tokens or sub-nodes.
//
// The set of node kinds and token types is closed. Consumers switch over
// Kind and must treat anything outside the switch as a grammar bug.
//
// Shape of a line (children in order, ? = optional):
//
//	Log        Line*
//	Line       pid? timestamp (Syscall | Unfinished | Resumed | Signal | Alert)
//	Syscall    NAME Args? RESULT DURATION?
//	Unfinished NAME Args?
//	Resumed    RESUMED Args? RESULT DURATION?
//	Signal     SIG_NAME <argument>
//	Alert      TEXT+
//	Args       <argument>*
//	Struct     (KeyValue | <argument> | ELLIPSIS)*
//	List       <argument>*
//	KeyValue   NAME <argument>
//	Function   NAME Args?
//	SigSet     NEGATED? SIGNAL*
//	Expr       EXPR
//	String     STRING
//	FdPath     FD PATH
//
// where <argument> is one of Struct, List, KeyValue, Function, SigSet,
// Expr, String, FdPath.
//
// Trees can also arrive as JSON from an external grammar (see DecodeJSON);
// the JSON kind names follow the original grammar rule names.
package syntax
