package store

import (
	"context"

	"github.com/matzehuels/kruskalviz/pkg/graph"
)

// NullStore is used when storage is disabled. Every operation fails with
// ErrDisabled except Close.
type NullStore struct{}

// NewNullStore returns a disabled store.
func NewNullStore() NullStore {
	return NullStore{}
}

func (NullStore) Save(context.Context, string, graph.Graph) error { return ErrDisabled }
func (NullStore) Load(context.Context, string) (graph.Graph, error) {
	return graph.Graph{}, ErrDisabled
}
func (NullStore) List(context.Context) ([]string, error) { return nil, ErrDisabled }
func (NullStore) Delete(context.Context, string) error   { return ErrDisabled }
func (NullStore) Close() error                           { return nil }

var _ Store = NullStore{}
