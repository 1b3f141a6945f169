// Package token defines lexical token kinds and trivia for gold sources.
// Invariants:
//   - Token.Span matches Text exactly.
//   - Comments never appear in the token stream; they are attached to the
//     next significant token as leading Trivia. Function headers are read
//     from that trivia.
//   - Type names (Int, String, ...) are plain identifiers; the semantic
//     layer resolves them.
package token
