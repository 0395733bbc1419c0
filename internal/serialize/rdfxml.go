package serialize

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// xmlNames maps predicate and class IRIs to XML qualified names. Namespaces
// not covered by the graph prefixes get generated ns1, ns2, ... prefixes in
// order of first use, skipping names the graph already binds.
type xmlNames struct {
	prefixes []rdf.Prefix
	extra    []rdf.Prefix
	byNS     map[string]string
	taken    map[string]bool
	next     int
}

func newXMLNames(g *rdf.Graph) *xmlNames {
	n := &xmlNames{
		prefixes: sortedPrefixes(g),
		byNS:     make(map[string]string),
		taken:    make(map[string]bool),
	}
	for _, p := range n.prefixes {
		n.taken[p.Name] = true
		if _, ok := n.byNS[p.Namespace]; !ok {
			n.byNS[p.Namespace] = p.Name
		}
	}
	return n
}

// qname abbreviates iri, declaring a generated prefix when no bound
// namespace fits.
func (n *xmlNames) qname(iri string) (string, error) {
	if q, ok := abbreviate(iri, n.prefixes); ok {
		return q, nil
	}
	ns, local, ok := splitIRI(iri)
	if !ok {
		return "", fmt.Errorf("rdfxml: unable to abbreviate IRI %q", iri)
	}
	name, ok := n.byNS[ns]
	if !ok {
		for name == "" || n.taken[name] {
			n.next++
			name = "ns" + strconv.Itoa(n.next)
		}
		n.taken[name] = true
		n.extra = append(n.extra, rdf.Prefix{Name: name, Namespace: ns})
		n.byNS[ns] = name
	}
	return name + ":" + local, nil
}

// declarations returns every xmlns binding for the root element, sorted.
func (n *xmlNames) declarations() []rdf.Prefix {
	all := append(append([]rdf.Prefix(nil), n.prefixes...), n.extra...)
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// xmlNode is one element under rdf:RDF.
type xmlNode struct {
	element    string
	subject    rdf.Term
	properties []xmlProperty
}

type xmlProperty struct {
	element string
	object  rdf.Term
}

// encodeRDFXML writes RDF/XML. In pretty mode the first rdf:type of each
// subject with an abbreviable class becomes the node element name.
func encodeRDFXML(w *bufio.Writer, g *rdf.Graph, pretty bool) error {
	names := newXMLNames(g)

	// Names are resolved before writing so generated prefixes can be
	// declared on the root element.
	var nodes []xmlNode
	for _, group := range groupBySubject(g.Statements()) {
		node := xmlNode{element: "rdf:Description", subject: group.subject}
		typed := false
		for _, st := range group.stmts {
			if pretty && !typed && st.P == rdf.RDFType {
				if class, ok := st.O.(rdf.IRI); ok {
					if q, err := names.qname(class.Value); err == nil {
						node.element = q
						typed = true
						continue
					}
				}
			}
			q, err := names.qname(st.P.Value)
			if err != nil {
				return err
			}
			node.properties = append(node.properties, xmlProperty{element: q, object: st.O})
		}
		nodes = append(nodes, node)
	}

	out := &stickyWriter{w: w}
	out.print(`<?xml version="1.0" encoding="utf-8"?>`, "\n", "<rdf:RDF")
	for _, p := range names.declarations() {
		out.print("\n   xmlns:", p.Name, `="`, escapeXMLAttr(p.Namespace), `"`)
	}
	out.print(">\n")

	for _, node := range nodes {
		subjectAttr, err := xmlSubjectAttr(node.subject)
		if err != nil {
			return err
		}
		if len(node.properties) == 0 {
			out.print("  <", node.element, " ", subjectAttr, "/>\n")
			continue
		}
		out.print("  <", node.element, " ", subjectAttr, ">\n")
		for _, prop := range node.properties {
			line, err := xmlPropertyElement(prop)
			if err != nil {
				return err
			}
			out.print("    ", line, "\n")
		}
		out.print("  </", node.element, ">\n")
	}
	out.print("</rdf:RDF>\n")

	if out.err != nil {
		return fmt.Errorf("rdfxml: %w", out.err)
	}
	return nil
}

func xmlSubjectAttr(t rdf.Term) (string, error) {
	switch v := t.(type) {
	case rdf.IRI:
		return `rdf:about="` + escapeXMLAttr(v.Value) + `"`, nil
	case rdf.BlankNode:
		return `rdf:nodeID="` + escapeXMLAttr(v.ID) + `"`, nil
	default:
		return "", fmt.Errorf("rdfxml: unsupported subject %s", t)
	}
}

func xmlPropertyElement(p xmlProperty) (string, error) {
	switch v := p.object.(type) {
	case rdf.IRI:
		return "<" + p.element + ` rdf:resource="` + escapeXMLAttr(v.Value) + `"/>`, nil
	case rdf.BlankNode:
		return "<" + p.element + ` rdf:nodeID="` + escapeXMLAttr(v.ID) + `"/>`, nil
	case rdf.Literal:
		attrs := ""
		if v.Typed() {
			attrs = ` rdf:datatype="` + escapeXMLAttr(v.Datatype.Value) + `"`
		}
		return "<" + p.element + attrs + ">" + escapeXML(v.Lexical) + "</" + p.element + ">", nil
	default:
		return "", fmt.Errorf("rdfxml: unsupported object %v", p.object)
	}
}
