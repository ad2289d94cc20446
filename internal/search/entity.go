package search

import "context"

// Kind distinguishes article pages from sub-category entries.
type Kind string

const (
	KindPage     Kind = "page"
	KindCategory Kind = "category"
)

// Entity is one searchable record. Entities are immutable once loaded.
type Entity struct {
	ID      int64
	Title   string
	SortKey string
	Kind    Kind
}

// Source supplies the full entity collection. It is called once per load.
type Source interface {
	All(ctx context.Context) ([]Entity, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context) ([]Entity, error)

// All calls f.
func (f SourceFunc) All(ctx context.Context) ([]Entity, error) {
	return f(ctx)
}

func cloneEntities(items []Entity) []Entity {
	if len(items) == 0 {
		return nil
	}
	dup := make([]Entity, len(items))
	copy(dup, items)
	return dup
}
