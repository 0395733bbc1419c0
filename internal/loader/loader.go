// Package loader reads earthquake records from JSON, USGS GeoJSON and YAML
// files.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// Expand resolves each pattern to files. Patterns without glob characters
// must name an existing file; glob patterns support ** and must match at
// least one file. Matches of a single pattern are sorted; duplicates across
// patterns are dropped.
func Expand(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := resolvePattern(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, &rdf.IOError{Op: "stat", Path: pattern, Err: err}
		}
		if info.IsDir() {
			return nil, &rdf.IOError{Op: "stat", Path: pattern, Err: fmt.Errorf("is a directory")}
		}
		return []string{filepath.Clean(pattern)}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, &rdf.IOError{Op: "glob", Path: pattern, Err: os.ErrNotExist}
	}
	sort.Strings(matches)
	return matches, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Load expands patterns and reads every matching file in order.
func Load(patterns ...string) ([]model.Earthquake, []string, error) {
	files, err := Expand(patterns)
	if err != nil {
		return nil, nil, err
	}

	var records []model.Earthquake
	for _, path := range files {
		recs, err := LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, recs...)
	}
	return records, files, nil
}

// LoadFile reads the records in a single file. Files ending in .yaml or .yml
// are YAML lists; everything else is JSON, either an array of records or a
// GeoJSON FeatureCollection.
func LoadFile(path string) ([]model.Earthquake, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &rdf.IOError{Op: "read", Path: path, Err: err}
	}

	var recs []model.Earthquake
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		recs, err = decodeYAML(data)
	default:
		recs, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return recs, nil
}

func decodeYAML(data []byte) ([]model.Earthquake, error) {
	var recs []model.Earthquake
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func decodeJSON(data []byte) ([]model.Earthquake, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '{' {
		return decodeGeoJSON(trimmed)
	}

	var recs []model.Earthquake
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// featureCollection is the subset of the USGS earthquake feed we read.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	ID       string `json:"id"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // lon, lat, depth
	} `json:"geometry"`
	Properties struct {
		Mag   *float64 `json:"mag"`
		Place string   `json:"place"`
		Time  *int64   `json:"time"` // milliseconds since the epoch
	} `json:"properties"`
}

func decodeGeoJSON(data []byte) ([]model.Earthquake, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unsupported GeoJSON type %q", fc.Type)
	}

	recs := make([]model.Earthquake, 0, len(fc.Features))
	for i, f := range fc.Features {
		if len(f.Geometry.Coordinates) < 2 {
			return nil, fmt.Errorf("feature %d (%s): missing coordinates", i, f.ID)
		}
		if f.Properties.Mag == nil {
			return nil, fmt.Errorf("feature %d (%s): missing magnitude", i, f.ID)
		}
		if f.Properties.Time == nil {
			return nil, fmt.Errorf("feature %d (%s): missing time", i, f.ID)
		}
		recs = append(recs, model.Earthquake{
			Latitude:  f.Geometry.Coordinates[1],
			Longitude: f.Geometry.Coordinates[0],
			Magnitude: *f.Properties.Mag,
			Place:     f.Properties.Place,
			Time:      time.UnixMilli(*f.Properties.Time).UTC(),
		})
	}
	return recs, nil
}
