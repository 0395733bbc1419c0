package mapper

import (
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/namespace"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// term is a prefixed name that is resolved against the registry at mapping time.
type term struct {
	prefix string
	local  string
}

// Prefixes every record mapping depends on.
const (
	PrefixEvent       = "eq"
	PrefixGeo         = "geo"
	PrefixMeasurement = "qudt"
	PrefixEvents      = "lode"
)

var (
	termEventClass = term{PrefixEvent, string(model.EventKindEarthquake)}
	termLat        = term{PrefixGeo, "lat"}
	termLong       = term{PrefixGeo, "long"}
	termMagnitude  = term{PrefixMeasurement, "vectorMagnitude"}
	termPlace      = term{PrefixEvents, "atPlace"}
	termTime       = term{PrefixEvents, "atTime"}
)

// RequiredPrefixes lists the prefixes a registry must bind before Map can succeed.
func RequiredPrefixes() []string {
	return []string{PrefixEvent, PrefixGeo, PrefixMeasurement, PrefixEvents}
}

// vocabulary is the resolved set of IRIs used for one record.
type vocabulary struct {
	eventClass rdf.IRI
	lat        rdf.IRI
	long       rdf.IRI
	magnitude  rdf.IRI
	place      rdf.IRI
	time       rdf.IRI
}

func resolveVocabulary(reg *namespace.Registry) (vocabulary, error) {
	var v vocabulary
	targets := []struct {
		t   term
		dst *rdf.IRI
	}{
		{termEventClass, &v.eventClass},
		{termLat, &v.lat},
		{termLong, &v.long},
		{termMagnitude, &v.magnitude},
		{termPlace, &v.place},
		{termTime, &v.time},
	}
	for _, tg := range targets {
		iri, err := reg.Resolve(tg.t.prefix, tg.t.local)
		if err != nil {
			return vocabulary{}, err
		}
		*tg.dst = iri
	}
	return v, nil
}
