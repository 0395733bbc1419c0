// Package rdf holds the statement model, the in-memory graph and the error
// kinds shared by the mapping and serialization packages.
package rdf

import "strconv"

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in a statement.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI is an absolute IRI reference.
type IRI struct {
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI in angle brackets.
func (i IRI) String() string { return "<" + i.Value + ">" }

// BlankNode is a graph-scoped node without an external identifier.
type BlankNode struct {
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node label prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal is a lexical value with an optional datatype. A zero Datatype
// means a plain string literal.
type Literal struct {
	Lexical  string
	Datatype IRI
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns the literal in N-Triples-like notation.
func (l Literal) String() string {
	if l.Datatype.Value != "" {
		return strconv.Quote(l.Lexical) + "^^" + l.Datatype.String()
	}
	return strconv.Quote(l.Lexical)
}

// Typed reports whether the literal carries a datatype.
func (l Literal) Typed() bool { return l.Datatype.Value != "" }

// Statement is a subject-predicate-object fact. Statements are values and
// are never modified after they are added to a graph.
type Statement struct {
	S Term
	P IRI
	O Term
}

// Valid reports whether all three positions are populated and the subject
// is an IRI or blank node.
func (s Statement) Valid() bool {
	if s.S == nil || s.O == nil || s.P.Value == "" {
		return false
	}
	return s.S.Kind() != TermLiteral
}
