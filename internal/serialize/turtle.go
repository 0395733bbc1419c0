package serialize

import (
	"bufio"
	"fmt"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// encodeTurtle writes prefix declarations followed by one block per run of
// statements with the same subject. N3 output uses the same grammar.
func encodeTurtle(w *bufio.Writer, g *rdf.Graph) error {
	out := &stickyWriter{w: w}
	prefixes := sortedPrefixes(g)
	for _, p := range prefixes {
		out.print("@prefix ", p.Name, ": <", p.Namespace, "> .\n")
	}

	for _, group := range groupBySubject(g.Statements()) {
		out.print("\n", turtleTerm(group.subject, prefixes))
		for i, st := range group.stmts {
			if i > 0 {
				out.print(" ;\n   ")
			}
			out.print(" ", turtlePredicate(st.P, prefixes), " ", turtleTerm(st.O, prefixes))
		}
		out.print(" .\n")
	}
	if out.err != nil {
		return fmt.Errorf("turtle: %w", out.err)
	}
	return nil
}

func turtlePredicate(p rdf.IRI, prefixes []rdf.Prefix) string {
	if p == rdf.RDFType {
		return "a"
	}
	return turtleIRI(p, prefixes)
}

func turtleIRI(iri rdf.IRI, prefixes []rdf.Prefix) string {
	if qname, ok := abbreviate(iri.Value, prefixes); ok {
		return qname
	}
	return "<" + iri.Value + ">"
}

func turtleTerm(t rdf.Term, prefixes []rdf.Prefix) string {
	switch v := t.(type) {
	case rdf.IRI:
		return turtleIRI(v, prefixes)
	case rdf.BlankNode:
		return v.String()
	case rdf.Literal:
		s := `"` + escapeString(v.Lexical) + `"`
		if v.Typed() {
			s += "^^" + turtleIRI(v.Datatype, prefixes)
		}
		return s
	default:
		return ""
	}
}
