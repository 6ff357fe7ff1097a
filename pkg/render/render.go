package render

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/kruskalviz/pkg/cache"
	"github.com/matzehuels/kruskalviz/pkg/errors"
	"github.com/matzehuels/kruskalviz/pkg/observability"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// Formats lists every supported output format.
var Formats = []string{FormatDOT, FormatSVG, FormatPNG}

// ValidateFormat checks that format is one of [Formats].
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats...)
}

// ContentType returns the HTTP media type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// Render produces the frame in the given format without caching.
func Render(ctx context.Context, f Frame, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	return renderFormat(ctx, ToDOT(f, opts), format)
}

func renderFormat(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return RenderPNG(ctx, dot)
	default:
		return []byte(dot), nil
	}
}

// Renderer renders frames through an artifact cache.
type Renderer struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithCache sets the artifact cache. The default is a NullCache.
func WithCache(c cache.Cache) RendererOption {
	return func(r *Renderer) {
		if c != nil {
			r.cache = c
		}
	}
}

// WithKeyer sets the cache keyer.
func WithKeyer(k cache.Keyer) RendererOption {
	return func(r *Renderer) {
		if k != nil {
			r.keyer = k
		}
	}
}

// WithTTL sets how long rendered artifacts stay valid. Zero keeps them forever.
func WithTTL(ttl time.Duration) RendererOption {
	return func(r *Renderer) { r.ttl = ttl }
}

// NewRenderer creates a caching renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{cache: cache.NewNullCache(), keyer: cache.NewDefaultKeyer()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the frame in format, serving SVG and PNG from the cache when
// an identical DOT document was rendered before. Cache failures fall back to
// rendering.
func (r *Renderer) Render(ctx context.Context, f Frame, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	dot := ToDOT(f, opts)
	if format == FormatDOT {
		return []byte(dot), nil
	}

	key := r.keyer.RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{Format: format})
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "render")
		return slices.Clone(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	data, err := renderFormat(ctx, dot, format)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, data, r.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return data, nil
}
