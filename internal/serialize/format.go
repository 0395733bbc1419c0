// Package serialize renders a graph in one of the supported RDF syntaxes and
// hands the document to a stream or file sink.
package serialize

import (
	"strings"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// Format is an output serialization token.
type Format string

const (
	// FormatXML is RDF/XML with one rdf:Description per subject.
	FormatXML Format = "xml"
	// FormatN3 is Notation3, written in its Turtle-compatible subset.
	FormatN3 Format = "n3"
	// FormatTurtle is Terse RDF Triple Language.
	FormatTurtle Format = "turtle"
	// FormatNTriples is line-based N-Triples.
	FormatNTriples Format = "nt"
	// FormatPrettyXML is RDF/XML with typed node elements and indentation.
	FormatPrettyXML Format = "pretty-xml"
	// FormatTriX is the TriX XML format.
	FormatTriX Format = "trix"
)

// FormatInfo provides metadata about an output format.
type FormatInfo struct {
	// Name is the format token.
	Name Format

	// Extension is the file extension, without the dot.
	Extension string

	// MIMEType is the registered media type.
	MIMEType string

	// Description describes the format.
	Description string
}

// formatRegistry lists every supported format in a stable order.
var formatRegistry = []FormatInfo{
	{
		Name:        FormatXML,
		Extension:   "rdf",
		MIMEType:    "application/rdf+xml",
		Description: "RDF/XML, flat rdf:Description blocks",
	},
	{
		Name:        FormatN3,
		Extension:   "n3",
		MIMEType:    "text/n3",
		Description: "Notation3",
	},
	{
		Name:        FormatTurtle,
		Extension:   "ttl",
		MIMEType:    "text/turtle",
		Description: "Turtle - Terse RDF Triple Language",
	},
	{
		Name:        FormatNTriples,
		Extension:   "nt",
		MIMEType:    "application/n-triples",
		Description: "N-Triples - line-based RDF",
	},
	{
		Name:        FormatPrettyXML,
		Extension:   "xml",
		MIMEType:    "application/rdf+xml",
		Description: "RDF/XML with typed nodes",
	},
	{
		Name:        FormatTriX,
		Extension:   "trix",
		MIMEType:    "application/trix",
		Description: "TriX - Triples in XML",
	},
}

// Formats returns metadata for every supported format.
func Formats() []FormatInfo {
	out := make([]FormatInfo, len(formatRegistry))
	copy(out, formatRegistry)
	return out
}

// Info returns metadata for f.
func Info(f Format) (FormatInfo, error) {
	for _, info := range formatRegistry {
		if info.Name == f {
			return info, nil
		}
	}
	return FormatInfo{}, &rdf.UnsupportedFormatError{Format: string(f)}
}

// ParseFormat validates a format token. Surrounding whitespace is ignored;
// the token itself must match exactly.
func ParseFormat(value string) (Format, error) {
	f := Format(strings.TrimSpace(value))
	if _, err := Info(f); err != nil {
		return "", err
	}
	return f, nil
}

// ExtensionFor returns the file extension used for f.
func ExtensionFor(f Format) (string, error) {
	info, err := Info(f)
	if err != nil {
		return "", err
	}
	return info.Extension, nil
}
