// Package fuzzy provides a best-effort, error-tolerant parser for C++-like
// source code, built for semantic syntax highlighting.
//
// # Overview
//
// The parser consumes a pre-lexed token buffer and produces a partial AST.
// It never rejects input: constructs it cannot recognize are boxed into
// UnparsableBlock nodes and parsing resynchronizes at the next statement
// boundary (';', '{' or '}'), so surrounding well-formed code keeps
// parsing.
//
//	┌─────────────┐     ┌─────────────┐     ┌──────────────────┐
//	│   Tokens    │────▶│   Cursor    │────▶│   Recognizers    │
//	│ (annotated) │     │ (rewindable)│     │ (speculative)    │
//	└─────────────┘     └─────────────┘     └──────────────────┘
//	       ▲                                        │
//	       │          back-references               ▼
//	       └────────────────────────────────┌──────────────────┐
//	                                        │ TranslationUnit  │
//	                                        └──────────────────┘
//
// # Speculative parsing
//
// Most recognizers may fail halfway through. Each acquires a cursor guard
// on entry and dismisses it on success; a guard that is not dismissed
// rewinds the cursor on exit, so a failed recognizer leaves the stream
// exactly where it started. Ambiguities (declaration vs. expression, type
// vs. value in template arguments) are resolved purely by the order in
// which alternatives are tried.
//
// # Token claiming
//
// Every token a recognizer commits to is claimed: its back-reference is
// set to the owning AST node. Speculative attempts that later fail leave
// stale claims behind, which the recognizer that ultimately commits
// overwrites for the tokens it takes; a token no committed node takes over
// (such as an abandoned base-class type) keeps its stale claim. After Parse
// returns, every non-comment, non-unknown, non-EOF token is claimed. The
// highlighter reads these back-references to pick a style per token.
//
// # Usage
//
//	buf := fuzzy.Annotate(lexer.Tokenize(src, file))
//	tu := fuzzy.Parse(buf)
//	// walk tu, or read buf[i].Ref() per token
package fuzzy
