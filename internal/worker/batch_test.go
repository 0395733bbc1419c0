package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/liangcun/ConceptsOfSpatialInformation/internal/mapper"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/model"
	"github.com/liangcun/ConceptsOfSpatialInformation/internal/rdf"
)

// mockMapper implements RecordMapper; it fails for places listed in failOn
type mockMapper struct {
	failOn map[string]bool
	delay  time.Duration
}

func (m *mockMapper) Map(rec model.Earthquake, mode mapper.SubjectMode, baseURI string) (rdf.Term, []rdf.Statement, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.failOn[rec.Place] {
		return nil, nil, errors.New("map error")
	}
	subject := rdf.BlankNode{ID: rec.Place}
	return subject, []rdf.Statement{{
		S: subject,
		P: rdf.IRI{Value: "http://example.org/place"},
		O: rdf.Literal{Lexical: rec.Place},
	}}, nil
}

func records(n int) []model.Earthquake {
	out := make([]model.Earthquake, n)
	for i := range out {
		out[i] = model.Earthquake{Place: fmt.Sprintf("p%d", i)}
	}
	return out
}

func TestBatchMapper_MapRecords(t *testing.T) {
	b := NewBatchMapper(&mockMapper{}, 4)

	results := b.MapRecords(context.Background(), records(25), mapper.SubjectBlank, "")

	if len(results) != 25 {
		t.Fatalf("expected 25 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error at %d: %v", i, res.Error)
			continue
		}
		if res.Index != i {
			t.Errorf("result %d has index %d", i, res.Index)
		}
		want := rdf.BlankNode{ID: fmt.Sprintf("p%d", i)}
		if res.Subject != want {
			t.Errorf("result %d: expected subject %v, got %v", i, want, res.Subject)
		}
		if len(res.Statements) != 1 {
			t.Errorf("result %d: expected 1 statement, got %d", i, len(res.Statements))
		}
	}
}

func TestBatchMapper_MapRecords_Error(t *testing.T) {
	b := NewBatchMapper(&mockMapper{failOn: map[string]bool{"p2": true}}, 3)

	results := b.MapRecords(context.Background(), records(5), mapper.SubjectBlank, "")

	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, res := range results {
		if i == 2 {
			if res.Error == nil {
				t.Error("expected error for record 2")
			}
			if res.Statements != nil {
				t.Error("expected no statements on error")
			}
			continue
		}
		if res.Error != nil {
			t.Errorf("unexpected error for record %d: %v", i, res.Error)
		}
	}
}

func TestBatchMapper_MapRecords_Empty(t *testing.T) {
	b := NewBatchMapper(&mockMapper{}, 2)

	results := b.MapRecords(context.Background(), nil, mapper.SubjectBlank, "")
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchMapper_MapRecords_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBatchMapper(&mockMapper{}, 2)
	results := b.MapRecords(ctx, records(10), mapper.SubjectBlank, "")

	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	for i, res := range results {
		if !errors.Is(res.Error, context.Canceled) {
			t.Errorf("record %d: expected context.Canceled, got %v", i, res.Error)
		}
	}
}

func TestMapResult_GetError(t *testing.T) {
	r1 := &MapResult{Index: 3}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}
	if r1.Position() != 3 {
		t.Errorf("expected position 3, got %d", r1.Position())
	}

	expected := errors.New("map failed")
	r2 := &MapResult{Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
