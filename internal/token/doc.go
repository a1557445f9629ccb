// Package token defines lexical token kinds for strace log lines.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Whitespace is never a token; Token.SpaceBefore records whether any
//     blank preceded it, which is what separates an fd annotation
//     (3</etc/passwd>) from a call duration (= 0 <0.000012>).
//   - Comments (/* 30 vars */) are tokens, not trivia: strace prints them
//     in argument position and they are part of the value.
package token
