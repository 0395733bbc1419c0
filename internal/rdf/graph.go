package rdf

import (
	"fmt"

	"github.com/google/uuid"
)

// Prefix binds a short name to a namespace IRI for serialization.
type Prefix struct {
	Name      string
	Namespace string
}

// Graph is an insertion-ordered, duplicate-tolerant statement store plus the
// prefix table used when it is serialized. It has a single writer; callers
// that map records concurrently must merge results before calling Add.
type Graph struct {
	id          string
	statements  []Statement
	prefixes    []Prefix
	prefixIndex map[string]int
	subjects    map[Term]struct{}
	revision    uint64
}

// NewGraph returns an empty graph with the rdf and xsd prefixes bound.
func NewGraph() *Graph {
	g := &Graph{
		id:          uuid.New().String(),
		prefixIndex: make(map[string]int),
		subjects:    make(map[Term]struct{}),
	}
	for _, p := range WellKnownPrefixes() {
		g.Bind(p.Name, p.Namespace)
	}
	return g
}

// ID returns an identifier that is unique to this graph instance.
func (g *Graph) ID() string { return g.id }

// Revision changes every time the graph is mutated.
func (g *Graph) Revision() uint64 { return g.revision }

// Bind adds a prefix to the serialization table. Rebinding an existing name
// replaces its namespace but keeps its position.
func (g *Graph) Bind(name, namespace string) {
	if i, ok := g.prefixIndex[name]; ok {
		g.prefixes[i].Namespace = namespace
	} else {
		g.prefixIndex[name] = len(g.prefixes)
		g.prefixes = append(g.prefixes, Prefix{Name: name, Namespace: namespace})
	}
	g.revision++
}

// Prefixes returns a copy of the prefix table in bind order.
func (g *Graph) Prefixes() []Prefix {
	out := make([]Prefix, len(g.prefixes))
	copy(out, g.prefixes)
	return out
}

// Add appends statements in the order given. Nothing is added when any of
// them is incomplete.
func (g *Graph) Add(stmts ...Statement) error {
	for i, st := range stmts {
		if !st.Valid() {
			return fmt.Errorf("rdf: statement %d is incomplete", i)
		}
	}
	for _, st := range stmts {
		g.statements = append(g.statements, st)
		g.subjects[st.S] = struct{}{}
	}
	if len(stmts) > 0 {
		g.revision++
	}
	return nil
}

// Statements returns a copy of the statements in insertion order.
func (g *Graph) Statements() []Statement {
	out := make([]Statement, len(g.statements))
	copy(out, g.statements)
	return out
}

// Len returns the number of statements.
func (g *Graph) Len() int { return len(g.statements) }

// HasSubject reports whether any statement uses t as its subject.
func (g *Graph) HasSubject(t Term) bool {
	_, ok := g.subjects[t]
	return ok
}

// Snapshot returns a marker that Restore can roll back to.
func (g *Graph) Snapshot() int { return len(g.statements) }

// Restore drops every statement added after the snapshot was taken.
func (g *Graph) Restore(snapshot int) {
	if snapshot < 0 || snapshot >= len(g.statements) {
		return
	}
	g.statements = g.statements[:snapshot]
	g.subjects = make(map[Term]struct{}, len(g.subjects))
	for _, st := range g.statements {
		g.subjects[st.S] = struct{}{}
	}
	g.revision++
}
