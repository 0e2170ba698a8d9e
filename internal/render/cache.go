package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererPool keeps one sync.Pool of TermRenderers per normalized option set.
// A TermRenderer is not safe for concurrent Render calls, so each caller
// borrows its own and hands it back.
type rendererPool struct {
	pools sync.Map // Options -> *sync.Pool
}

var globalPool = &rendererPool{}

// cacheKey normalizes the style so aliases share renderers
func cacheKey(opts Options) Options {
	opts.Style = glamourStyle(opts.Style)
	return opts
}

func (p *rendererPool) pool(opts Options) *sync.Pool {
	key := cacheKey(opts)
	if pool, ok := p.pools.Load(key); ok {
		return pool.(*sync.Pool)
	}

	pool, _ := p.pools.LoadOrStore(key, &sync.Pool{
		New: func() any {
			r, err := createRenderer(key)
			if err != nil {
				return nil
			}
			return r
		},
	})
	return pool.(*sync.Pool)
}

func (p *rendererPool) get(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.pool(opts).Get().(*glamour.TermRenderer); ok {
		return r, nil
	}
	// New swallowed the error; build again to report it
	return createRenderer(cacheKey(opts))
}

func (p *rendererPool) put(opts Options, r *glamour.TermRenderer) {
	if r != nil {
		p.pool(opts).Put(r)
	}
}

func (p *rendererPool) reset() {
	p.pools.Range(func(k, _ any) bool {
		p.pools.Delete(k)
		return true
	})
}

func (p *rendererPool) size() int {
	n := 0
	p.pools.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// createRenderer builds a TermRenderer for opts; opts.Style must already be
// a glamour style name or path
func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops all pooled renderers.
func ClearCache() { globalPool.reset() }

// CacheSize returns the number of distinct option sets with a pool.
func CacheSize() int { return globalPool.size() }
