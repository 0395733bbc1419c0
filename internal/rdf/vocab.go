package rdf

// Well-known namespaces that every graph declares without configuration.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// Terms from the well-known namespaces used by the mapper and encoders.
var (
	RDFType = IRI{Value: RDFNamespace + "type"}

	XSDFloat    = IRI{Value: XSDNamespace + "float"}
	XSDDateTime = IRI{Value: XSDNamespace + "dateTime"}
)

// WellKnownPrefixes returns the prefix table a new graph starts with.
func WellKnownPrefixes() []Prefix {
	return []Prefix{
		{Name: "rdf", Namespace: RDFNamespace},
		{Name: "xsd", Namespace: XSDNamespace},
	}
}
