package serialize

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// EncodeError identifies the term value a format cannot carry.
type EncodeError struct {
	Format Format
	Value  string
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %q: %s", e.Format, e.Value, e.Reason)
}

// Unwrap returns rdf.ErrUnencodable.
func (e *EncodeError) Unwrap() error { return rdf.ErrUnencodable }

// encodeFunc writes a whole graph to w.
type encodeFunc func(w *bufio.Writer, g *rdf.Graph) error

func encoderFor(f Format) (encodeFunc, error) {
	switch f {
	case FormatTurtle, FormatN3:
		return encodeTurtle, nil
	case FormatNTriples:
		return encodeNTriples, nil
	case FormatXML:
		return func(w *bufio.Writer, g *rdf.Graph) error { return encodeRDFXML(w, g, false) }, nil
	case FormatPrettyXML:
		return func(w *bufio.Writer, g *rdf.Graph) error { return encodeRDFXML(w, g, true) }, nil
	case FormatTriX:
		return encodeTriX, nil
	default:
		return nil, &rdf.UnsupportedFormatError{Format: string(f)}
	}
}

// Encode writes g to w in format f.
func Encode(w io.Writer, g *rdf.Graph, f Format) error {
	enc, err := encoderFor(f)
	if err != nil {
		return err
	}
	if f == FormatXML || f == FormatPrettyXML || f == FormatTriX {
		if err := checkXMLChars(g, f); err != nil {
			return err
		}
	}
	bw := bufio.NewWriter(w)
	if err := enc(bw, g); err != nil {
		return err
	}
	return bw.Flush()
}

// Render returns the document for g in format f. The output depends only on
// the graph contents, so rendering an unchanged graph twice yields identical
// bytes.
func Render(g *rdf.Graph, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, g, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// subjectGroup is a run of consecutive statements sharing a subject.
type subjectGroup struct {
	subject rdf.Term
	stmts   []rdf.Statement
}

// groupBySubject splits statements into runs of equal subjects, keeping
// insertion order. A subject that reappears later starts a new group.
func groupBySubject(stmts []rdf.Statement) []subjectGroup {
	var groups []subjectGroup
	for _, st := range stmts {
		if n := len(groups); n > 0 && groups[n-1].subject == st.S {
			groups[n-1].stmts = append(groups[n-1].stmts, st)
			continue
		}
		groups = append(groups, subjectGroup{subject: st.S, stmts: []rdf.Statement{st}})
	}
	return groups
}

// sortedPrefixes returns the graph prefixes ordered by name.
func sortedPrefixes(g *rdf.Graph) []rdf.Prefix {
	prefixes := g.Prefixes()
	sort.Slice(prefixes, func(i, j int) bool { return prefixes[i].Name < prefixes[j].Name })
	return prefixes
}

// abbreviate returns prefix:local for iri using the longest matching namespace.
func abbreviate(iri string, prefixes []rdf.Prefix) (string, bool) {
	best := -1
	for i, p := range prefixes {
		if p.Namespace == "" || !strings.HasPrefix(iri, p.Namespace) {
			continue
		}
		if !isQNameLocal(iri[len(p.Namespace):]) {
			continue
		}
		if best < 0 || len(p.Namespace) > len(prefixes[best].Namespace) {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	p := prefixes[best]
	return p.Name + ":" + iri[len(p.Namespace):], true
}

// splitIRI splits iri after its last '#' or '/' when the remainder is a
// valid local name.
func splitIRI(iri string) (string, string, bool) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx <= 0 || idx+1 >= len(iri) {
		return "", "", false
	}
	local := iri[idx+1:]
	if !isQNameLocal(local) {
		return "", "", false
	}
	return iri[:idx+1], local, true
}

func isQNameLocal(value string) bool {
	if value == "" || value[len(value)-1] == '.' {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}

// escapeString escapes a lexical form for a double-quoted Turtle or
// N-Triples string.
func escapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}

// xmlEscaper escapes character data; \r becomes a reference so it survives
// line-end normalization.
var xmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
	"\r", "&#13;",
)

// xmlAttrEscaper also protects whitespace that attribute normalization
// would turn into spaces.
var xmlAttrEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
	"\r", "&#13;",
	"\n", "&#10;",
	"\t", "&#9;",
)

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}

func escapeXMLAttr(value string) string {
	return xmlAttrEscaper.Replace(value)
}

// xmlCharOK reports whether r is allowed anywhere in an XML 1.0 document.
func xmlCharOK(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return false
	default:
		return r <= utf8.MaxRune
	}
}

// checkXMLChars fails on the first term value an XML document cannot hold,
// even as a character reference.
func checkXMLChars(g *rdf.Graph, f Format) error {
	check := func(value string) error {
		if !utf8.ValidString(value) {
			return &EncodeError{Format: f, Value: value, Reason: "invalid UTF-8"}
		}
		for _, r := range value {
			if !xmlCharOK(r) {
				return &EncodeError{Format: f, Value: value, Reason: fmt.Sprintf("character U+%04X is not allowed in XML", r)}
			}
		}
		return nil
	}
	for _, st := range g.Statements() {
		for _, t := range []rdf.Term{st.S, st.P, st.O} {
			var err error
			switch v := t.(type) {
			case rdf.IRI:
				err = check(v.Value)
			case rdf.BlankNode:
				err = check(v.ID)
			case rdf.Literal:
				if err = check(v.Lexical); err == nil {
					err = check(v.Datatype.Value)
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// stickyWriter remembers the first write error so encoders can write a whole
// document and check once.
type stickyWriter struct {
	w   *bufio.Writer
	err error
}

func (s *stickyWriter) print(parts ...string) {
	for _, p := range parts {
		if s.err != nil {
			return
		}
		_, s.err = s.w.WriteString(p)
	}
}
