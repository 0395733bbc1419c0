package serialize

import (
	"bufio"
	"fmt"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

const trixNamespace = "http://www.w3.org/2004/03/trix/trix-1/"

// encodeTriX writes the graph as a single unnamed TriX graph.
func encodeTriX(w *bufio.Writer, g *rdf.Graph) error {
	out := &stickyWriter{w: w}
	out.print(`<?xml version="1.0" encoding="utf-8"?>`, "\n")
	out.print(`<TriX xmlns="`, trixNamespace, `">`, "\n", "  <graph>\n")
	for _, st := range g.Statements() {
		out.print("    <triple>\n")
		for _, t := range []rdf.Term{st.S, st.P, st.O} {
			out.print("      ", trixTerm(t), "\n")
		}
		out.print("    </triple>\n")
	}
	out.print("  </graph>\n", "</TriX>\n")
	if out.err != nil {
		return fmt.Errorf("trix: %w", out.err)
	}
	return nil
}

func trixTerm(t rdf.Term) string {
	switch v := t.(type) {
	case rdf.IRI:
		return "<uri>" + escapeXML(v.Value) + "</uri>"
	case rdf.BlankNode:
		return "<id>" + escapeXML(v.ID) + "</id>"
	case rdf.Literal:
		if v.Typed() {
			return `<typedLiteral datatype="` + escapeXMLAttr(v.Datatype.Value) + `">` + escapeXML(v.Lexical) + "</typedLiteral>"
		}
		return "<plainLiteral>" + escapeXML(v.Lexical) + "</plainLiteral>"
	default:
		return ""
	}
}
