package client

import (
	"context"

	"github.com/dakka24/dakka/internal/view"
)

// Renderer turns records into elements. Build receives the record's position
// in the result so ranked lists can badge the top entries.
type Renderer[T any] struct {
	Build func(record T, index int) view.Element
	Empty func() view.Element
}

// Render replaces the container's contents with one element per record, in
// order, or with the placeholder when there are none.
func (r Renderer[T]) Render(c view.Container, records []T) {
	c.Reset()
	if len(records) == 0 {
		if r.Empty != nil {
			c.Append(r.Empty())
		}
		return
	}
	for i, record := range records {
		c.Append(r.Build(record, i))
	}
}

// Refresh loads a collection and renders it. On error the container is left
// untouched so the previous content stays visible.
func Refresh[T any](ctx context.Context, loader Loader[T], renderer Renderer[T], c view.Container) ([]T, error) {
	records, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	renderer.Render(c, records)
	return records, nil
}
