package serialize

import (
	"bufio"
	"fmt"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// encodeNTriples writes one fully expanded statement per line.
func encodeNTriples(w *bufio.Writer, g *rdf.Graph) error {
	out := &stickyWriter{w: w}
	for _, st := range g.Statements() {
		out.print(ntTerm(st.S), " ", ntTerm(st.P), " ", ntTerm(st.O), " .\n")
	}
	if out.err != nil {
		return fmt.Errorf("ntriples: %w", out.err)
	}
	return nil
}

func ntTerm(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return "<" + v.Value + ">"
	case rdf.BlankNode:
		return v.String()
	case rdf.Literal:
		s := `"` + escapeString(v.Lexical) + `"`
		if v.Typed() {
			s += "^^<" + v.Datatype.Value + ">"
		}
		return s
	default:
		return ""
	}
}
