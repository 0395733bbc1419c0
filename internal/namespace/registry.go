// Package namespace loads prefix-to-namespace bindings and resolves prefixed
// terms against them.
package namespace

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// Binding associates a short prefix with a namespace IRI.
type Binding struct {
	Prefix    string `mapstructure:"prefix" yaml:"prefix" json:"prefix"`
	Namespace string `mapstructure:"namespace" yaml:"namespace" json:"namespace"`
}

// Registry is an ordered, immutable-after-load set of bindings.
type Registry struct {
	bindings []Binding
	index    map[string]int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// configTypes are the file extensions handed to viper as-is. Anything else
// is parsed as JSON, which is what the bindings file has always been.
var configTypes = map[string]bool{
	"json": true,
	"yaml": true,
	"yml":  true,
	"toml": true,
}

// LoadBindings reads a bindings file with a top-level "bindings" list of
// {prefix, namespace} objects. An empty path yields an empty registry.
func LoadBindings(path string) (*Registry, error) {
	reg := New()
	if path == "" {
		return reg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, rdf.NewConfigError(path, err, "bindings file is not readable")
	}

	v := viper.New()
	v.SetConfigFile(path)
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); !configTypes[ext] {
		v.SetConfigType("json")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, rdf.NewConfigError(path, err, "parse bindings")
	}
	if !v.IsSet("bindings") {
		return nil, rdf.NewConfigError(path, nil, "missing top-level %q list", "bindings")
	}

	var descs []Binding
	if err := v.UnmarshalKey("bindings", &descs); err != nil {
		return nil, rdf.NewConfigError(path, err, "decode bindings")
	}
	for i, d := range descs {
		if d.Prefix == "" {
			return nil, rdf.NewConfigError(path, nil, "binding %d: missing prefix", i)
		}
		if d.Namespace == "" {
			return nil, rdf.NewConfigError(path, nil, "binding %d (%s): missing namespace", i, d.Prefix)
		}
		if err := reg.Bind(d.Prefix, d.Namespace); err != nil {
			var cfgErr *rdf.ConfigError
			if errors.As(err, &cfgErr) {
				cfgErr.Source = path
			}
			return nil, err
		}
	}
	return reg, nil
}

// Bind registers a binding. Duplicate prefixes, malformed prefixes and
// namespaces that are not absolute IRIs are rejected.
func (r *Registry) Bind(prefix, namespace string) error {
	if !validPrefix(prefix) {
		return rdf.NewConfigError("", nil, "invalid prefix %q", prefix)
	}
	if _, dup := r.index[prefix]; dup {
		return rdf.NewConfigError("", nil, "duplicate prefix %q", prefix)
	}
	if err := validNamespace(namespace); err != nil {
		return rdf.NewConfigError("", err, "prefix %q: invalid namespace %q", prefix, namespace)
	}
	for _, wk := range rdf.WellKnownPrefixes() {
		if wk.Name == prefix && wk.Namespace != namespace {
			return rdf.NewConfigError("", nil, "prefix %q is reserved for %s", prefix, wk.Namespace)
		}
	}
	r.index[prefix] = len(r.bindings)
	r.bindings = append(r.bindings, Binding{Prefix: prefix, Namespace: namespace})
	return nil
}

// Namespace returns the namespace IRI bound to prefix. A nil registry has no
// bindings.
func (r *Registry) Namespace(prefix string) (string, bool) {
	if r == nil {
		return "", false
	}
	i, ok := r.index[prefix]
	if !ok {
		return "", false
	}
	return r.bindings[i].Namespace, true
}

// Resolve expands prefix:local into an IRI.
func (r *Registry) Resolve(prefix, local string) (rdf.IRI, error) {
	ns, ok := r.Namespace(prefix)
	if !ok {
		return rdf.IRI{}, &rdf.UnboundNamespaceError{Prefix: prefix, Local: local}
	}
	return rdf.IRI{Value: ns + local}, nil
}

// Bindings returns a copy of the bindings in registration order.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Len returns the number of bindings.
func (r *Registry) Len() int { return len(r.bindings) }

// BindTo registers every binding with the graph's prefix table.
func (r *Registry) BindTo(g *rdf.Graph) {
	for _, b := range r.bindings {
		g.Bind(b.Prefix, b.Namespace)
	}
}

func validPrefix(p string) bool {
	if p == "" || strings.HasSuffix(p, ".") {
		return false
	}
	for i, ch := range p {
		letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		if i == 0 {
			if !letter {
				return false
			}
			continue
		}
		if !letter && !(ch >= '0' && ch <= '9') && ch != '_' && ch != '-' && ch != '.' {
			return false
		}
	}
	return true
}

// ValidateIRI reports whether s is an absolute IRI that can be written
// unescaped in every output format.
func ValidateIRI(s string) error {
	return validNamespace(s)
}

func validNamespace(ns string) error {
	if strings.ContainsAny(ns, " \t\r\n<>\"{}|^`\\") {
		return fmt.Errorf("contains characters not allowed in an IRI")
	}
	u, err := url.Parse(ns)
	if err != nil {
		return err
	}
	if u.Scheme == "" {
		return fmt.Errorf("not absolute")
	}
	return nil
}
