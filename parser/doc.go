// Package parser provides the syntactic front end for Gobra, the
// verification-aware dialect of Go.
//
// # Overview
//
// The parser turns source text into a concrete syntax tree that mixes
// ordinary Go declarations, statements, expressions and types with ghost
// code: pre- and postconditions, loop invariants, predicates, quantifiers,
// fold/unfold, old-expressions, ghost collection types, pattern matching,
// domains, ADTs and closure specifications. Name resolution, type checking
// and translation are left to the consumers of the tree.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (tree)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │  Implicit   │     │ SyntaxError │
//	                    │ semicolons  │     │  ErrorList  │
//	                    └─────────────┘     └─────────────┘
//
// The lexer inserts a semicolon at a line break that follows an
// identifier, a literal, a closing bracket (including the predicate
// closer "!>") or one of a few keywords, as Go does. Such semicolons are
// marked Implicit. Token streams from another lexer can be handed in with
// FromTokens.
//
// # Entry Points
//
//	p := parser.ParseSourceFile(r, parser.WithFile("list.gobra"))
//	node, err := p.Finish()
//
// ParseExpression, ParseStatement and ParseType work the same way. Each
// entry rule must consume the whole input. IsComplete reports whether the
// input is a finished unit, which a REPL uses to decide whether to read
// another line.
//
// # Statement Terminators
//
// A statement or declaration ends at a semicolon, at end of input, or
// before a closing ")", "]", "}" or "!>" while inside brackets:
//
//	{ x := 1; y := 2 }
//
// needs no semicolon after the second statement.
//
// # Expressions
//
// Binary operators are parsed by precedence climbing. From tightest to
// loosest:
//
//	*  /  %  <<  >>  &  &^
//	+  -  |  ^  ++  --*
//	union  intersection  setminus
//	in  #  subset
//	==  !=  <  <=  >  >=  ===  !==
//	&&
//	||
//	==>                      (right associative)
//	c ? a : b                (right associative)
//	f implements spec
//
// Quantifiers, let and unfolding extend as far right as possible:
//
//	forall i int :: {s[i]} 0 <= i && i < len(s) ==> s[i] > 0
//
// # Errors
//
// Failures are reported as *SyntaxError values collected in an ErrorList.
// The whole-file driver skips to the next top-level terminator after an
// error so that independent errors are reported together. A failed parse
// never returns a tree.
//
// # Tree Shape
//
// Every node records the half-open range of token indices it consumed;
// siblings never share a token. Node.SExpr renders a tree compactly:
//
//	a.b[i].c(x)  =>  (Call (Selector (Index (Selector a b) i) c) (Args x))
package parser
