// Package syntax defines the language-independent syntax node algebra and the annotated
// tree type (Term) that the diff engine and renderers operate on.
//
// Each syntactic construct is one Tag in a closed enum with a per-tag schema: a category
// label used verbatim in rendered output, an arity (leaf, fixed-N, or list), and whether
// the node carries leaf text (an identifier, literal, or operator token). Nodes are
// uniform: a Term is an annotation plus a Tag, optional leaf text, and ordered children.
// The diff algorithm consumes nodes only through this uniform surface, so adding a new
// construct means adding one Tag constant and one schema entry, never touching the
// alignment or diff code.
package syntax

import "fmt"

// Tag identifies a syntactic construct.
type Tag int

// The supported syntactic constructs.
const (
	// List-shaped nodes (variable child count):
	TagProgram Tag = iota
	TagStatements
	TagParameters
	TagArguments
	TagProductType
	TagInterfaceType
	TagTypeParameters

	// Fixed-arity nodes:
	TagBinary        // lhs, operator, rhs
	TagAssignment    // target, value
	TagParenthesized // expression
	TagReturn        // expression
	TagIf            // condition, then-Statements, else-Statements
	TagMethod        // name, Parameters, body-Statements
	TagFunction      // name, Parameters, body-Statements
	TagCall          // function, Arguments
	TagTypeAnnotation
	TagTypeAlias
	TagArrayType // length, element
	TagSendChannel
	TagReceiveChannel
	TagBidirectionalChannel
	TagMapType // key, value
	TagPointerType
	TagSliceType
	TagReadonly

	// Leaf nodes:
	TagIdentifier  // leaf: the identifier text
	TagOperator    // leaf: the operator token; category renders as the token itself
	TagInteger     // leaf: the literal text
	TagTextElement // leaf: the literal text including quotes
	TagComment     // leaf: the comment text
	TagEmpty
	TagError // leaf: the source slice that failed to parse
)

// Arity describes how many children a Tag's nodes hold.
type Arity int

const (
	ArityLeaf  Arity = iota // no children
	ArityFixed              // exactly schema.fixed children, positional
	ArityList               // any number of children, ordered
)

type schema struct {
	category     string
	arity        Arity
	fixed        int  // child count when arity == ArityFixed
	leaf         bool // node carries leaf text
	leafCategory bool // category label is the leaf text itself (operator tokens)
}

var schemas = map[Tag]schema{
	TagProgram:        {category: "Program", arity: ArityList},
	TagStatements:     {category: "Statements", arity: ArityList},
	TagParameters:     {category: "Parameters", arity: ArityList},
	TagArguments:      {category: "Arguments", arity: ArityList},
	TagProductType:    {category: "ProductType", arity: ArityList},
	TagInterfaceType:  {category: "Interface", arity: ArityList},
	TagTypeParameters: {category: "TypeParameters", arity: ArityList},

	TagBinary:               {category: "Binary", arity: ArityFixed, fixed: 3},
	TagAssignment:           {category: "Assignment", arity: ArityFixed, fixed: 2},
	TagParenthesized:        {category: "Parenthesized", arity: ArityFixed, fixed: 1},
	TagReturn:               {category: "Return", arity: ArityFixed, fixed: 1},
	TagIf:                   {category: "If", arity: ArityFixed, fixed: 3},
	TagMethod:               {category: "Method", arity: ArityFixed, fixed: 3},
	TagFunction:             {category: "Function", arity: ArityFixed, fixed: 3},
	TagCall:                 {category: "Call", arity: ArityFixed, fixed: 2},
	TagTypeAnnotation:       {category: "TypeAnnotation", arity: ArityFixed, fixed: 2},
	TagTypeAlias:            {category: "TypeAlias", arity: ArityFixed, fixed: 2},
	TagArrayType:            {category: "ArrayType", arity: ArityFixed, fixed: 2},
	TagSendChannel:          {category: "SendChannel", arity: ArityFixed, fixed: 1},
	TagReceiveChannel:       {category: "ReceiveChannel", arity: ArityFixed, fixed: 1},
	TagBidirectionalChannel: {category: "BidirectionalChannel", arity: ArityFixed, fixed: 1},
	TagMapType:              {category: "Map", arity: ArityFixed, fixed: 2},
	TagPointerType:          {category: "Pointer", arity: ArityFixed, fixed: 1},
	TagSliceType:            {category: "Slice", arity: ArityFixed, fixed: 1},
	TagReadonly:             {category: "Readonly", arity: ArityFixed, fixed: 1},

	TagIdentifier:  {category: "Identifier", arity: ArityLeaf, leaf: true},
	TagOperator:    {category: "Operator", arity: ArityLeaf, leaf: true, leafCategory: true},
	TagInteger:     {category: "Integer", arity: ArityLeaf, leaf: true},
	TagTextElement: {category: "TextElement", arity: ArityLeaf, leaf: true},
	TagComment:     {category: "Comment", arity: ArityLeaf, leaf: true},
	TagEmpty:       {category: "Empty", arity: ArityLeaf},
	TagError:       {category: "ParseError", arity: ArityLeaf, leaf: true},
}

// Arity returns the arity of tag.
func (t Tag) Arity() Arity { return schemas[t].arity }

// FixedArity returns the required child count for an ArityFixed tag, and 0 otherwise.
func (t Tag) FixedArity() int { return schemas[t].fixed }

// HasLeaf reports whether nodes of this tag carry leaf text.
func (t Tag) HasLeaf() bool { return schemas[t].leaf }

// Term is a single syntax tree node: source-position metadata plus a tagged payload.
//
// Terms form strict trees: each Term is owned exclusively by its parent (no sharing, no
// cycles) and is immutable once constructed. The external parser builds Terms once; the
// diff algorithm and renderers only read them.
type Term struct {
	Ann      Annotation
	Tag      Tag
	Leaf     string  // identifier / literal / operator text; "" when Tag.HasLeaf() is false
	Children []*Term // ordered; length fixed by Tag.FixedArity() for fixed-arity tags
}

// New constructs a Term, panicking if children violate the tag's arity or if leaf text
// is supplied for a tag that carries none. Construction is the only place arity is
// enforced; everything downstream may assume well-formed Terms.
func New(tag Tag, ann Annotation, leaf string, children ...*Term) *Term {
	s, ok := schemas[tag]
	if !ok {
		panic(fmt.Sprintf("syntax: unknown tag %d", tag))
	}
	switch s.arity {
	case ArityLeaf:
		if len(children) != 0 {
			panic(fmt.Sprintf("syntax: %s takes no children, got %d", s.category, len(children)))
		}
	case ArityFixed:
		if len(children) != s.fixed {
			panic(fmt.Sprintf("syntax: %s takes %d children, got %d", s.category, s.fixed, len(children)))
		}
	}
	if leaf != "" && !s.leaf {
		panic(fmt.Sprintf("syntax: %s carries no leaf text", s.category))
	}
	for i, c := range children {
		if c == nil {
			panic(fmt.Sprintf("syntax: %s child %d is nil", s.category, i))
		}
	}
	return &Term{Ann: ann, Tag: tag, Leaf: leaf, Children: children}
}

// Category returns the label shown for this node in rendered output. For operator
// tokens this is the token itself (ex: "and"), otherwise the tag's category name.
func (t *Term) Category() string {
	s := schemas[t.Tag]
	if s.leafCategory && t.Leaf != "" {
		return t.Leaf
	}
	return s.category
}

// WithChildren returns a copy of t with the given children, preserving the annotation
// and leaf text. The new children must satisfy t.Tag's arity.
func (t *Term) WithChildren(children []*Term) *Term {
	return New(t.Tag, t.Ann, t.Leaf, children...)
}

// Size returns the number of nodes in the subtree rooted at t.
func (t *Term) Size() int {
	n := 1
	for _, c := range t.Children {
		n += c.Size()
	}
	return n
}

// Equal reports deep structural equality of two subtrees: tags, leaf text, and children
// must all match. Annotations are compared too, so two Terms are Equal only if they
// describe the same source extent; parse determinism makes this hold for identical
// inputs.
func Equal(a, b *Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || a.Leaf != b.Leaf || a.Ann != b.Ann || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// EqualIgnoringPosition is Equal without the annotation comparison: two subtrees are
// equal if they have the same shape and leaf text everywhere. This is the equality the
// diff algorithm uses, so that unchanged code that merely moved within a file still
// compares equal.
func EqualIgnoringPosition(a, b *Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || a.Leaf != b.Leaf || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !EqualIgnoringPosition(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// LeafText appends all leaf text in the subtree rooted at t to out, in source order,
// and returns the extended slice.
func (t *Term) LeafText(out []string) []string {
	if t.Leaf != "" {
		out = append(out, t.Leaf)
	}
	for _, c := range t.Children {
		out = c.LeafText(out)
	}
	return out
}
