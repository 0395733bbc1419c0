package worker

import (
	"context"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/mapper"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// RecordMapper defines the interface for mapping one record to statements
type RecordMapper interface {
	Map(rec model.Earthquake, mode mapper.SubjectMode, baseURI string) (rdf.Term, []rdf.Statement, error)
}

// MapJob represents a record mapping job
type MapJob struct {
	Index   int
	Record  model.Earthquake
	Mode    mapper.SubjectMode
	BaseURI string
	Mapper  RecordMapper
}

// Execute executes the mapping job
func (j *MapJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &MapResult{Index: j.Index, Error: err}
	}
	subject, stmts, err := j.Mapper.Map(j.Record, j.Mode, j.BaseURI)
	if err != nil {
		return &MapResult{Index: j.Index, Error: err}
	}
	return &MapResult{
		Index:      j.Index,
		Subject:    subject,
		Statements: stmts,
	}
}

// MapResult represents the result of a mapping job
type MapResult struct {
	Index      int
	Subject    rdf.Term
	Statements []rdf.Statement
	Error      error
}

// Position returns the record index
func (r *MapResult) Position() int {
	return r.Index
}

// GetError returns the error from the mapping result
func (r *MapResult) GetError() error {
	return r.Error
}

// BatchMapper maps many records concurrently
type BatchMapper struct {
	mapper      RecordMapper
	concurrency int
}

// NewBatchMapper creates a new batch mapper
func NewBatchMapper(m RecordMapper, concurrency int) *BatchMapper {
	return &BatchMapper{
		mapper:      m,
		concurrency: concurrency,
	}
}

// MapRecords maps every record and returns one result per record, in record
// order. Records that were never run because ctx was cancelled carry the
// context error.
func (b *BatchMapper) MapRecords(ctx context.Context, records []model.Earthquake, mode mapper.SubjectMode, baseURI string) []*MapResult {
	if len(records) == 0 {
		return []*MapResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, rec := range records {
		job := &MapJob{
			Index:   i,
			Record:  rec,
			Mode:    mode,
			BaseURI: baseURI,
			Mapper:  b.mapper,
		}
		if !pool.Submit(job) {
			break
		}
	}

	out := make([]*MapResult, len(records))
	for _, result := range pool.Wait() {
		r := result.(*MapResult)
		out[r.Index] = r
	}
	for i := range out {
		if out[i] == nil {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			out[i] = &MapResult{Index: i, Error: err}
		}
	}
	return out
}
