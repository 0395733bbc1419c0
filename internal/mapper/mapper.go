// Package mapper turns earthquake records into RDF statements.
package mapper

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/namespace"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// SubjectMode selects how record subjects are identified.
type SubjectMode int

const (
	// SubjectBlank gives every record a fresh blank node.
	SubjectBlank SubjectMode = iota
	// SubjectNamed gives every record an IRI made of a base URI and a random token.
	SubjectNamed
)

func (m SubjectMode) String() string {
	switch m {
	case SubjectBlank:
		return "blank"
	case SubjectNamed:
		return "named"
	default:
		return "unknown"
	}
}

// ModeFor returns SubjectNamed when a base URI is present, SubjectBlank otherwise.
func ModeFor(baseURI string) SubjectMode {
	if baseURI != "" {
		return SubjectNamed
	}
	return SubjectBlank
}

// TokenBytes is the number of random bytes in a named subject token.
const TokenBytes = 16

// StatementsPerRecord is the number of statements Map emits for one record.
const StatementsPerRecord = 6

// Mapper maps records using a fixed registry. It holds no mutable state and
// is safe for concurrent use as long as the registry is not modified.
type Mapper struct {
	reg      *namespace.Registry
	entropy  io.Reader
	blankIDs func() string
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithEntropy replaces crypto/rand as the source of named subject tokens.
func WithEntropy(r io.Reader) Option {
	return func(m *Mapper) { m.entropy = r }
}

// WithBlankIDs replaces the blank node label generator.
func WithBlankIDs(next func() string) Option {
	return func(m *Mapper) { m.blankIDs = next }
}

// New creates a mapper backed by reg.
func New(reg *namespace.Registry, opts ...Option) *Mapper {
	m := &Mapper{
		reg:      reg,
		entropy:  rand.Reader,
		blankIDs: newBlankID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// newBlankID returns "N" followed by a v4 UUID without dashes.
func newBlankID() string {
	return "N" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Map returns the subject and the six statements describing rec, in the
// order type, latitude, longitude, magnitude, place, time.
func (m *Mapper) Map(rec model.Earthquake, mode SubjectMode, baseURI string) (rdf.Term, []rdf.Statement, error) {
	if mode == SubjectNamed {
		if err := checkBaseURI(baseURI); err != nil {
			return nil, nil, err
		}
	}

	vocab, err := resolveVocabulary(m.reg)
	if err != nil {
		return nil, nil, err
	}

	subject, err := m.NewSubject(mode, baseURI)
	if err != nil {
		return nil, nil, err
	}

	stmts := []rdf.Statement{
		{S: subject, P: rdf.RDFType, O: vocab.eventClass},
		{S: subject, P: vocab.lat, O: FloatLiteral(rec.Latitude)},
		{S: subject, P: vocab.long, O: FloatLiteral(rec.Longitude)},
		{S: subject, P: vocab.magnitude, O: FloatLiteral(rec.Magnitude)},
		{S: subject, P: vocab.place, O: rdf.Literal{Lexical: rec.Place}},
		{S: subject, P: vocab.time, O: DateTimeLiteral(rec.Time)},
	}
	return subject, stmts, nil
}

// NewSubject generates a subject identifier for the given mode.
// Named identifiers are unique with high probability only: 128 random bits
// with no registry of previously issued tokens.
func (m *Mapper) NewSubject(mode SubjectMode, baseURI string) (rdf.Term, error) {
	switch mode {
	case SubjectBlank:
		return rdf.BlankNode{ID: m.blankIDs()}, nil
	case SubjectNamed:
		if err := checkBaseURI(baseURI); err != nil {
			return nil, err
		}
		buf := make([]byte, TokenBytes)
		if _, err := io.ReadFull(m.entropy, buf); err != nil {
			return nil, fmt.Errorf("read subject token: %w", err)
		}
		return rdf.IRI{Value: baseURI + hex.EncodeToString(buf)}, nil
	default:
		return nil, rdf.NewConfigError("subject-mode", nil, "unknown subject mode %d", int(mode))
	}
}

// checkBaseURI rejects bases that cannot prefix a subject IRI
func checkBaseURI(baseURI string) error {
	if baseURI == "" {
		return rdf.NewConfigError("base-uri", nil, "named subjects require a base URI")
	}
	if err := namespace.ValidateIRI(baseURI); err != nil {
		return rdf.NewConfigError("base-uri", err, "invalid base URI %q", baseURI)
	}
	return nil
}

// FloatLiteral renders v as an xsd:float literal.
func FloatLiteral(v float64) rdf.Literal {
	return rdf.Literal{Lexical: formatFloat(v), Datatype: rdf.XSDFloat}
}

// DateTimeLiteral renders t as an xsd:dateTime literal.
func DateTimeLiteral(t time.Time) rdf.Literal {
	return rdf.Literal{Lexical: FormatDateTime(t), Datatype: rdf.XSDDateTime}
}

// FormatDateTime renders t as ISO-8601 with a numeric offset, e.g.
// 2023-01-01T00:00:00+00:00. Microseconds are included only when non-zero.
func FormatDateTime(t time.Time) string {
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond()/1000 != 0 {
		layout += ".000000"
	}
	return t.Format(layout + "-07:00")
}

// formatFloat produces the shortest round-trip form, keeping a ".0" on
// integral values and switching to exponent form for very large or small
// magnitudes.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
