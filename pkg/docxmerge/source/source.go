// Package source loads template data from files, databases and key-value
// stores. Every loader produces a map that can be passed to Render directly;
// Merge combines several of them into one data context.
package source

import (
	"context"
	"fmt"
)

// Loader produces a template data context.
type Loader interface {
	Load(ctx context.Context) (map[string]any, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (map[string]any, error)

func (f LoaderFunc) Load(ctx context.Context) (map[string]any, error) {
	return f(ctx)
}

// Merge runs the loaders in order. Keys loaded later replace earlier ones.
func Merge(ctx context.Context, loaders ...Loader) (map[string]any, error) {
	data := make(map[string]any)
	for i, l := range loaders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		part, err := l.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("loader %d: %w", i+1, err)
		}
		for k, v := range part {
			data[k] = v
		}
	}
	return data, nil
}
