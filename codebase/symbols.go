package codebase

import "github.com/dhamidi/gobra/parser"

type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolMethod
	SymbolPredicate
	SymbolType
	SymbolConstant
	SymbolVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "func"
	case SymbolMethod:
		return "method"
	case SymbolPredicate:
		return "pred"
	case SymbolType:
		return "type"
	case SymbolConstant:
		return "const"
	case SymbolVariable:
		return "var"
	}
	return "unknown"
}

// Symbol is a top-level declaration of a file.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Ghost bool
	Span  parser.Span // the whole declaration
	Ident parser.Span // the declared name
}

// Symbols lists the top-level declarations of a file in source order.
// A file with syntax errors has none.
func (f *FileInfo) Symbols() []Symbol {
	if f.AST == nil {
		return nil
	}
	var symbols []Symbol
	for _, decl := range f.AST.Children {
		symbols = appendSymbols(symbols, decl, false)
	}
	return symbols
}

func appendSymbols(symbols []Symbol, decl *parser.Node, ghost bool) []Symbol {
	ghost = ghost || decl.Flags.Has(parser.FlagGhost)

	named := func(kind SymbolKind, n, name *parser.Node) {
		if name == nil {
			return
		}
		symbols = append(symbols, Symbol{
			Name:  name.TokenLiteral(),
			Kind:  kind,
			Ghost: ghost,
			Span:  n.Span,
			Ident: name.Span,
		})
	}

	switch decl.Kind {
	case parser.KindGhostMember:
		for _, child := range decl.Children {
			symbols = appendSymbols(symbols, child, true)
		}
	case parser.KindFuncDecl:
		named(SymbolFunction, decl, decl.FirstChildOfKind(parser.KindIdent))
	case parser.KindMethodDecl:
		named(SymbolMethod, decl, decl.FirstChildOfKind(parser.KindIdent))
	case parser.KindFPredicate, parser.KindMPredicate:
		named(SymbolPredicate, decl, decl.FirstChildOfKind(parser.KindIdent))
	case parser.KindTypeDecl:
		for _, spec := range decl.ChildrenOfKind(parser.KindTypeSpec) {
			named(SymbolType, spec, spec.FirstChildOfKind(parser.KindIdent))
		}
	case parser.KindConstDecl, parser.KindVarDecl:
		kind := SymbolVariable
		specKind := parser.KindVarSpec
		if decl.Kind == parser.KindConstDecl {
			kind, specKind = SymbolConstant, parser.KindConstSpec
		}
		for _, spec := range decl.ChildrenOfKind(specKind) {
			idents := spec.FirstChildOfKind(parser.KindIdentList)
			if idents == nil {
				continue
			}
			for _, id := range idents.ChildrenOfKind(parser.KindIdent) {
				named(kind, spec, id)
			}
		}
	}
	return symbols
}
