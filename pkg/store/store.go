// Package store keeps named graphs.
//
// A [Store] maps a validated name to a [graph.Graph]. Backends:
//   - [FileStore]: one JSON file per name under a data directory (CLI default)
//   - [RedisStore]: one key per name, shared between server instances
//   - [MongoStore]: one document per name
//   - [NullStore]: storage disabled
//
// Every backend reports saves and loads through [observability.Store].
package store

import (
	"context"
	"time"

	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/graph"
	"github.com/matzehuels/kruskalviz/pkg/observability"
)

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Backends lists every backend name accepted in configuration.
var Backends = []string{BackendFile, BackendRedis, BackendMongo, BackendNone}

// ErrNotFound is returned by Load and Delete for unknown names.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "graph not found")

// ErrDisabled is returned by every NullStore operation.
var ErrDisabled = errors.New(errors.ErrCodeUnsupported, "graph storage is disabled")

// Store persists named graphs.
type Store interface {
	// Save writes g under name, replacing any previous graph.
	Save(ctx context.Context, name string, g graph.Graph) error
	// Load returns the graph stored under name or ErrNotFound.
	Load(ctx context.Context, name string) (graph.Graph, error)
	// List returns all stored names in ascending order.
	List(ctx context.Context) ([]string, error)
	// Delete removes name or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
	// Close releases backend connections.
	Close() error
}

// notFound wraps ErrNotFound with the requested name.
func notFound(name string) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "%q", name)
}

// checkGraph validates g before it is written so stores never hold graphs
// that cannot be loaded back.
func checkGraph(name string, g graph.Graph) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	return g.Validate()
}

func observeSave(ctx context.Context, backend, name string, start time.Time, err error) {
	observability.Store().OnSave(ctx, backend, name, time.Since(start), err)
}

func observeLoad(ctx context.Context, backend, name string, start time.Time, err error) {
	observability.Store().OnLoad(ctx, backend, name, time.Since(start), err)
}
