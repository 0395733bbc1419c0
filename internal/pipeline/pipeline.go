// Package pipeline builds the session graph from earthquake records and
// emits it through the serializer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/cache"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/mapper"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/namespace"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/serialize"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/worker"
)

// maxSubjectAttempts bounds how often a record is re-mapped when its subject
// is already in the graph.
const maxSubjectAttempts = 3

// ErrSubjectCollision is returned when a record keeps receiving subjects that
// are already present in the graph.
var ErrSubjectCollision = errors.New("subject identifier collision")

// RecordError identifies the record that aborted AddAll.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Creator orchestrates mapping and serialization. It owns one graph for its
// lifetime; every Create call adds to it and emits the whole graph.
type Creator struct {
	reg      *namespace.Registry
	mapper   worker.RecordMapper
	cache    cache.Cache
	renderer *serialize.Renderer
	stdout   io.Writer
	workers  int
	logger   *slog.Logger
	graph    *rdf.Graph
}

// Option configures a Creator.
type Option func(*Creator)

// WithWorkers sets how many records are mapped concurrently.
func WithWorkers(n int) Option {
	return func(c *Creator) { c.workers = n }
}

// WithStdout replaces os.Stdout as the destination when no filename is given.
func WithStdout(w io.Writer) Option {
	return func(c *Creator) { c.stdout = w }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Creator) { c.logger = l }
}

// WithMapper replaces the registry-backed mapper.
func WithMapper(m worker.RecordMapper) Option {
	return func(c *Creator) { c.mapper = m }
}

// WithCache memoizes rendered documents in rc.
func WithCache(rc cache.Cache) Option {
	return func(c *Creator) { c.cache = rc }
}

// NewCreator creates a creator whose graph carries the bindings of reg. A nil
// reg is treated as an empty registry.
func NewCreator(reg *namespace.Registry, opts ...Option) *Creator {
	if reg == nil {
		reg = namespace.New()
	}
	c := &Creator{
		reg:     reg,
		stdout:  os.Stdout,
		workers: 1,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mapper == nil {
		c.mapper = mapper.New(reg)
	}
	c.renderer = serialize.NewRenderer(c.cache, c.logger)
	c.Reset()
	return c
}

// Graph returns the session graph.
func (c *Creator) Graph() *rdf.Graph { return c.graph }

// Reset replaces the session graph with an empty one and drops renders of
// the previous graph.
func (c *Creator) Reset() {
	g := rdf.NewGraph()
	c.reg.BindTo(g)
	c.graph = g
	c.renderer.Purge()
}

// CreateOptions are the per-call arguments of Create.
type CreateOptions struct {
	Format   serialize.Format
	Filename string // base name without extension; empty writes to stdout
	BaseURI  string // non-empty switches subjects from blank nodes to IRIs
	Atomic   bool   // roll the graph back when any record fails
}

// CreateResult describes a finished Create call.
type CreateResult struct {
	Destination string
	Statements  int // total statements in the session graph
	Records     int // records added by this call
}

// Create maps records into the session graph and emits the graph in
// opts.Format. The format is checked before anything is mapped.
func (c *Creator) Create(ctx context.Context, records []model.Earthquake, opts CreateOptions) (*CreateResult, error) {
	if _, err := serialize.Info(opts.Format); err != nil {
		return nil, err
	}

	snapshot := c.graph.Snapshot()
	before := c.graph.Len()
	if err := c.AddAll(ctx, c.graph, records, opts.BaseURI); err != nil {
		if opts.Atomic {
			c.graph.Restore(snapshot)
			c.logger.Debug("Rolled back graph", "statements", c.graph.Len())
		}
		return nil, err
	}
	c.logger.Debug("Mapped records",
		"records", len(records),
		"added", c.graph.Len()-before,
		"mode", mapper.ModeFor(opts.BaseURI))

	var sink serialize.Sink = serialize.StreamSink{W: c.stdout, Name: "<stdout>"}
	if opts.Filename != "" {
		sink = serialize.FileSink{Base: opts.Filename}
	}
	dest, err := c.renderer.Emit(c.graph, opts.Format, sink)
	if err != nil {
		return nil, err
	}

	return &CreateResult{
		Destination: dest,
		Statements:  c.graph.Len(),
		Records:     len(records),
	}, nil
}

// AddAll maps records in input order and appends their statements to g in
// record order. With more than one worker the records are mapped
// concurrently and merged by index. The first failing record aborts the
// call; statements of earlier records stay in g.
func (c *Creator) AddAll(ctx context.Context, g *rdf.Graph, records []model.Earthquake, baseURI string) error {
	mode := mapper.ModeFor(baseURI)

	if c.workers <= 1 || len(records) < 2 {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return &RecordError{Index: i, Err: err}
			}
			subject, stmts, err := c.mapper.Map(rec, mode, baseURI)
			if err != nil {
				return &RecordError{Index: i, Err: err}
			}
			if err := c.add(g, rec, mode, baseURI, subject, stmts); err != nil {
				return &RecordError{Index: i, Err: err}
			}
		}
		return nil
	}

	batch := worker.NewBatchMapper(c.mapper, c.workers)
	for _, res := range batch.MapRecords(ctx, records, mode, baseURI) {
		if res.Error != nil {
			return &RecordError{Index: res.Index, Err: res.Error}
		}
		if err := c.add(g, records[res.Index], mode, baseURI, res.Subject, res.Statements); err != nil {
			return &RecordError{Index: res.Index, Err: err}
		}
	}
	return nil
}

// add appends one record's statements, re-mapping it while its subject
// already exists in g.
func (c *Creator) add(g *rdf.Graph, rec model.Earthquake, mode mapper.SubjectMode, baseURI string, subject rdf.Term, stmts []rdf.Statement) error {
	for attempt := 1; g.HasSubject(subject); attempt++ {
		if attempt >= maxSubjectAttempts {
			return fmt.Errorf("%w: %s", ErrSubjectCollision, subject)
		}
		c.logger.Warn("Subject already in graph, re-mapping record", "subject", subject.String(), "attempt", attempt)
		var err error
		subject, stmts, err = c.mapper.Map(rec, mode, baseURI)
		if err != nil {
			return err
		}
	}
	return g.Add(stmts...)
}
