package parser

import "strings"

type NodeKind int

const (
	KindEmpty NodeKind = iota

	// Source file level
	KindSourceFile
	KindInitEnsures
	KindPackageClause
	KindImportDecl
	KindImportSpec
	KindImportRequires

	// Declarations
	KindConstDecl
	KindConstSpec
	KindTypeDecl
	KindTypeSpec
	KindVarDecl
	KindVarSpec
	KindFuncDecl
	KindMethodDecl
	KindReceiver
	KindSignature
	KindParameters
	KindParameter
	KindResult
	KindBody
	KindShare
	KindGhostMember
	KindFPredicate
	KindMPredicate
	KindPredicateBody
	KindImplementationProof
	KindPredicateAlias
	KindMethodProof

	// Specifications
	KindSpecification
	KindRequires
	KindPreserves
	KindEnsures
	KindDecreases
	KindDecreasesIf
	KindLoopSpec
	KindInvariant

	// Types
	KindTypeName
	KindPointerType
	KindArrayType
	KindImplicitArrayType
	KindSliceType
	KindGhostSliceType
	KindMapType
	KindChanType
	KindFuncType
	KindStructType
	KindFieldDecl
	KindEmbeddedField
	KindInterfaceType
	KindMethodSpec
	KindPredicateSpec
	KindEmbeddedType
	KindPredType
	KindParenType
	KindCollectionType
	KindDictType
	KindDomainType
	KindDomainFunc
	KindDomainAxiom
	KindAdtType
	KindAdtClause

	// Statements
	KindBlock
	KindExprStmt
	KindSendStmt
	KindIncDecStmt
	KindAssignment
	KindShortVarDecl
	KindLabeledStmt
	KindGoStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindGotoStmt
	KindFallthroughStmt
	KindIfStmt
	KindSwitchStmt
	KindTypeSwitchStmt
	KindCaseClause
	KindSelectStmt
	KindCommClause
	KindForStmt
	KindForClause
	KindRangeClause
	KindDeferStmt
	KindGhostStmt
	KindFoldStmt
	KindProofStmt
	KindMatchStmt
	KindMatchStmtClause
	KindOutlineStmt
	KindPackageStmt
	KindApplyStmt
	KindClosureImplProof

	// Expressions
	KindIdent
	KindBasicLit
	KindCompositeLit
	KindLiteralValue
	KindKeyedElement
	KindFuncLit
	KindParenExpr
	KindSelector
	KindIndex
	KindSlice
	KindSeqUpdate
	KindSeqUpdateClause
	KindTypeAssert
	KindTypeKeyword
	KindCall
	KindArguments
	KindPredConstruct
	KindUnary
	KindBinary
	KindTernary
	KindImplements
	KindClosureSpecInstance
	KindClosureSpecParam
	KindQuantifier
	KindBoundVars
	KindTrigger
	KindLet
	KindUnfolding
	KindConversion
	KindNew
	KindMake
	KindBuiltinCall
	KindRangeExpr
	KindAccess
	KindTypeOf
	KindTypeExpr
	KindIsComparable
	KindOld
	KindLhs
	KindBefore
	KindSConversion
	KindSome
	KindNone
	KindGet
	KindPermission
	KindMatchExpr
	KindMatchExprClause
	KindPatternBind
	KindPatternComposite
	KindPatternValue
	KindDefault
	KindExprList
	KindIdentList
)

var nodeKindNames = map[NodeKind]string{
	KindEmpty:               "Empty",
	KindSourceFile:          "SourceFile",
	KindInitEnsures:         "InitEnsures",
	KindPackageClause:       "PackageClause",
	KindImportDecl:          "ImportDecl",
	KindImportSpec:          "ImportSpec",
	KindImportRequires:      "ImportRequires",
	KindConstDecl:           "ConstDecl",
	KindConstSpec:           "ConstSpec",
	KindTypeDecl:            "TypeDecl",
	KindTypeSpec:            "TypeSpec",
	KindVarDecl:             "VarDecl",
	KindVarSpec:             "VarSpec",
	KindFuncDecl:            "FuncDecl",
	KindMethodDecl:          "MethodDecl",
	KindReceiver:            "Receiver",
	KindSignature:           "Signature",
	KindParameters:          "Parameters",
	KindParameter:           "Parameter",
	KindResult:              "Result",
	KindBody:                "Body",
	KindShare:               "Share",
	KindGhostMember:         "GhostMember",
	KindFPredicate:          "FPredicate",
	KindMPredicate:          "MPredicate",
	KindPredicateBody:       "PredicateBody",
	KindImplementationProof: "ImplementationProof",
	KindPredicateAlias:      "PredicateAlias",
	KindMethodProof:         "MethodProof",
	KindSpecification:       "Specification",
	KindRequires:            "Requires",
	KindPreserves:           "Preserves",
	KindEnsures:             "Ensures",
	KindDecreases:           "Decreases",
	KindDecreasesIf:         "DecreasesIf",
	KindLoopSpec:            "LoopSpec",
	KindInvariant:           "Invariant",
	KindTypeName:            "TypeName",
	KindPointerType:         "PointerType",
	KindArrayType:           "ArrayType",
	KindImplicitArrayType:   "ImplicitArrayType",
	KindSliceType:           "SliceType",
	KindGhostSliceType:      "GhostSliceType",
	KindMapType:             "MapType",
	KindChanType:            "ChanType",
	KindFuncType:            "FuncType",
	KindStructType:          "StructType",
	KindFieldDecl:           "FieldDecl",
	KindEmbeddedField:       "EmbeddedField",
	KindInterfaceType:       "InterfaceType",
	KindMethodSpec:          "MethodSpec",
	KindPredicateSpec:       "PredicateSpec",
	KindEmbeddedType:        "EmbeddedType",
	KindPredType:            "PredType",
	KindParenType:           "ParenType",
	KindCollectionType:      "CollectionType",
	KindDictType:            "DictType",
	KindDomainType:          "DomainType",
	KindDomainFunc:          "DomainFunc",
	KindDomainAxiom:         "DomainAxiom",
	KindAdtType:             "AdtType",
	KindAdtClause:           "AdtClause",
	KindBlock:               "Block",
	KindExprStmt:            "ExprStmt",
	KindSendStmt:            "SendStmt",
	KindIncDecStmt:          "IncDecStmt",
	KindAssignment:          "Assignment",
	KindShortVarDecl:        "ShortVarDecl",
	KindLabeledStmt:         "LabeledStmt",
	KindGoStmt:              "GoStmt",
	KindReturnStmt:          "ReturnStmt",
	KindBreakStmt:           "BreakStmt",
	KindContinueStmt:        "ContinueStmt",
	KindGotoStmt:            "GotoStmt",
	KindFallthroughStmt:     "FallthroughStmt",
	KindIfStmt:              "IfStmt",
	KindSwitchStmt:          "SwitchStmt",
	KindTypeSwitchStmt:      "TypeSwitchStmt",
	KindCaseClause:          "CaseClause",
	KindSelectStmt:          "SelectStmt",
	KindCommClause:          "CommClause",
	KindForStmt:             "ForStmt",
	KindForClause:           "ForClause",
	KindRangeClause:         "RangeClause",
	KindDeferStmt:           "DeferStmt",
	KindGhostStmt:           "GhostStmt",
	KindFoldStmt:            "FoldStmt",
	KindProofStmt:           "ProofStmt",
	KindMatchStmt:           "MatchStmt",
	KindMatchStmtClause:     "MatchStmtClause",
	KindOutlineStmt:         "OutlineStmt",
	KindPackageStmt:         "PackageStmt",
	KindApplyStmt:           "ApplyStmt",
	KindClosureImplProof:    "ClosureImplProof",
	KindIdent:               "Ident",
	KindBasicLit:            "BasicLit",
	KindCompositeLit:        "CompositeLit",
	KindLiteralValue:        "LiteralValue",
	KindKeyedElement:        "KeyedElement",
	KindFuncLit:             "FuncLit",
	KindParenExpr:           "ParenExpr",
	KindSelector:            "Selector",
	KindIndex:               "Index",
	KindSlice:               "Slice",
	KindSeqUpdate:           "SeqUpdate",
	KindSeqUpdateClause:     "SeqUpdateClause",
	KindTypeAssert:          "TypeAssert",
	KindTypeKeyword:         "TypeKeyword",
	KindCall:                "Call",
	KindArguments:           "Args",
	KindPredConstruct:       "PredConstruct",
	KindUnary:               "Unary",
	KindBinary:              "Binary",
	KindTernary:             "Ternary",
	KindImplements:          "Implements",
	KindClosureSpecInstance: "ClosureSpecInstance",
	KindClosureSpecParam:    "ClosureSpecParam",
	KindQuantifier:          "Quantifier",
	KindBoundVars:           "BoundVars",
	KindTrigger:             "Trigger",
	KindLet:                 "Let",
	KindUnfolding:           "Unfolding",
	KindConversion:          "Conversion",
	KindNew:                 "New",
	KindMake:                "Make",
	KindBuiltinCall:         "BuiltinCall",
	KindRangeExpr:           "RangeExpr",
	KindAccess:              "Access",
	KindTypeOf:              "TypeOf",
	KindTypeExpr:            "TypeExpr",
	KindIsComparable:        "IsComparable",
	KindOld:                 "Old",
	KindLhs:                 "Lhs",
	KindBefore:              "Before",
	KindSConversion:         "SConversion",
	KindSome:                "Some",
	KindNone:                "None",
	KindGet:                 "Get",
	KindPermission:          "Permission",
	KindMatchExpr:           "MatchExpr",
	KindMatchExprClause:     "MatchExprClause",
	KindPatternBind:         "PatternBind",
	KindPatternComposite:    "PatternComposite",
	KindPatternValue:        "PatternValue",
	KindDefault:             "Default",
	KindExprList:            "ExprList",
	KindIdentList:           "IdentList",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Flag records modifiers that do not warrant a child node of their own.
type Flag uint16

const (
	FlagPure Flag = 1 << iota
	FlagTrusted
	FlagOpaque
	FlagGhost
	FlagVariadic
	FlagAddressable
	FlagAlias
	FlagSendOnly
	FlagRecvOnly
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{FlagPure, "pure"},
	{FlagTrusted, "trusted"},
	{FlagOpaque, "opaque"},
	{FlagGhost, "ghost"},
	{FlagVariadic, "variadic"},
	{FlagAddressable, "addressable"},
	{FlagAlias, "alias"},
	{FlagSendOnly, "send"},
	{FlagRecvOnly, "recv"},
}

func (f Flag) Has(other Flag) bool {
	return f&other != 0
}

func (f Flag) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, ",")
}

// TokenInterval is the half-open interval of token indices a node consumed.
type TokenInterval struct {
	Start int
	End   int
}

func (r TokenInterval) Len() int {
	return r.End - r.Start
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Range    TokenInterval
	Token    *Token
	Flags    Flag
	Children []*Node
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Walk calls fn for n and every descendant in depth-first order,
// skipping the subtree of any node for which fn returns false.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

func (n *Node) String() string {
	return n.stringIndent(0, false)
}

func (n *Node) StringWithPositions() string {
	return n.stringIndent(0, true)
}

func (n *Node) stringIndent(indent int, showPositions bool) string {
	var sb strings.Builder
	n.writeIndent(&sb, indent, showPositions)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if n.Flags != 0 {
		sb.WriteString(" [" + n.Flags.String() + "]")
	}
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	sb.WriteString("\n")
	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}

// SExpr renders the tree on one line. Identifiers and basic literals
// print as their text; every other node prints as
// (Kind[flags] token children...).
func (n *Node) SExpr() string {
	var sb strings.Builder
	n.writeSExpr(&sb)
	return sb.String()
}

func (n *Node) writeSExpr(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("nil")
		return
	}
	switch n.Kind {
	case KindIdent, KindBasicLit:
		if len(n.Children) == 0 && n.Flags == 0 {
			sb.WriteString(n.TokenLiteral())
			return
		}
	case KindEmpty:
		sb.WriteString("()")
		return
	}
	sb.WriteString("(")
	sb.WriteString(n.Kind.String())
	if n.Flags != 0 {
		sb.WriteString("[" + n.Flags.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	for _, child := range n.Children {
		sb.WriteString(" ")
		child.writeSExpr(sb)
	}
	sb.WriteString(")")
}
