package serialize

import (
	"log/slog"
	"time"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/cache"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// Renderer renders graphs and memoizes the result per graph revision and
// format. A nil cache disables memoization.
type Renderer struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewRenderer creates a renderer backed by c.
func NewRenderer(c cache.Cache, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{cache: c, logger: logger}
}

// Render returns the document for g in format f.
func (r *Renderer) Render(g *rdf.Graph, f Format) ([]byte, error) {
	if _, err := Info(f); err != nil {
		return nil, err
	}
	if r.cache == nil {
		return Render(g, f)
	}

	key := cache.RenderKey(g.ID(), g.Revision(), string(f))
	if doc, ok := r.cache.Get(key); ok {
		r.logger.Debug("Render cache hit", "format", f, "statements", g.Len())
		return doc, nil
	}

	doc, err := Render(g, f)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(key, doc, r.ttl); err != nil {
		r.logger.Warn("Failed to cache rendered graph", "format", f, "error", err)
	}
	return doc, nil
}

// Purge drops every memoized document.
func (r *Renderer) Purge() {
	if r.cache == nil {
		return
	}
	if err := r.cache.Clear(); err != nil {
		r.logger.Warn("Failed to clear render cache", "error", err)
	}
}

// Emit renders g and hands the document to sink, returning the destination.
func (r *Renderer) Emit(g *rdf.Graph, f Format, sink Sink) (string, error) {
	doc, err := r.Render(g, f)
	if err != nil {
		return "", err
	}
	dest, err := sink.Write(f, doc)
	if err != nil {
		return "", err
	}
	r.logger.Info("Wrote graph", "format", f, "statements", g.Len(), "bytes", len(doc), "destination", dest)
	return dest, nil
}

// Emit renders g without memoization and hands it to sink.
func Emit(g *rdf.Graph, f Format, sink Sink) (string, error) {
	return NewRenderer(nil, nil).Emit(g, f, sink)
}
