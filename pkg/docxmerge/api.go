// Package docxmerge merges data into Microsoft Word (DOCX) templates.
//
// A template is an ordinary document whose text contains {{...}} placeholders.
// Placeholders may be split over several runs by the word processor; they are
// reassembled before rendering. Each paragraph holding a placeholder is
// rendered once, and every other entry of the package is written back with
// its content unchanged.
//
// Basic Usage:
//
//	tmpl, err := docxmerge.PrepareFile("report.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tmpl.Close()
//
//	data := docxmerge.TemplateData{
//	    "customer": "ACME Corp",
//	    "summary":  "## Findings\n\nAll checks **passed**.",
//	    "rows":     [][]any{{"widget", 3}, {"gadget", 1}},
//	}
//
//	out, err := os.Create("out.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer out.Close()
//	if err := tmpl.RenderTo(out, data); err != nil {
//	    log.Fatal(err)
//	}
//
// Template Syntax:
//
// Values: {{customer}}, {{order.total * 1.2}}, {{upper(customer)}}
//
// Blocks: {{#if paid}}...{{else}}...{{/if}}, {{#each items}}{{this}}{{/each}}
//
// Helpers, each replacing its whole paragraph:
//
//	{{table rows}}        a table spanning the printable page width
//	{{markdown summary}}  Markdown converted to styled paragraphs
//	{{jupyter notebook}}  notebook text and PNG figures
//
// A placeholder whose value is missing leaves its paragraph as written.
package docxmerge

import (
	"io"
	"os"
	"time"
)

// Engine prepares templates with a shared configuration, evaluator and
// logger, caching templates prepared from files.
type Engine struct {
	config    *Config
	cache     *TemplateCache
	evaluator Evaluator
	logger    *Logger
}

// New creates an engine with the global configuration.
func New() *Engine {
	return NewWithOptions()
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(config *Config) *Engine {
	return NewWithOptions(WithConfig(config))
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		if config != nil {
			c := *config
			e.config = &c
		}
	}
}

// WithCache sets the cache size. 0 disables caching.
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		e.config.CacheMaxSize = maxSize
	}
}

// WithEvaluator replaces the expression evaluator.
func WithEvaluator(evaluator Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = evaluator
	}
}

// WithLogger sets the logger used while preparing and rendering.
func WithLogger(logger *Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewWithOptions creates an engine with the specified options.
func NewWithOptions(opts ...Option) *Engine {
	engine := &Engine{config: GetGlobalConfig()}
	for _, opt := range opts {
		opt(engine)
	}
	engine.cache = NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: engine.config.CacheMaxSize,
		TTL:     engine.config.CacheTTL,
	})
	return engine
}

// PrepareFile loads a template from a file path. The template is cached by
// path when caching is enabled, so repeated calls may return the same
// *PreparedTemplate. Closing it drops it from the cache on the next call;
// eviction and ClearCache never close it.
func (e *Engine) PrepareFile(path string) (*PreparedTemplate, error) {
	if tmpl, ok := e.cache.Get(path); ok {
		return tmpl, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, NewPackagingError("open", path, err)
	}
	defer file.Close()

	tmpl, err := e.Prepare(file)
	if err != nil {
		return nil, err
	}
	e.cache.Set(path, tmpl)
	return tmpl, nil
}

// Prepare loads a template from a reader.
func (e *Engine) Prepare(r io.Reader) (*PreparedTemplate, error) {
	return prepare(r, prepareOptions{
		evaluator: e.evaluator,
		logger:    e.logger,
		config:    e.config,
	})
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Close drops the cached templates. Templates already handed out stay usable.
func (e *Engine) Close() error {
	return e.cache.Close()
}

// DefaultEngine is the engine behind the package level functions.
var DefaultEngine = New()

// PrepareFile loads a template from a file path using the default engine.
func PrepareFile(path string) (*PreparedTemplate, error) {
	return DefaultEngine.PrepareFile(path)
}

// Prepare loads a template from a reader using the default engine.
func Prepare(r io.Reader) (*PreparedTemplate, error) {
	return DefaultEngine.Prepare(r)
}

// ClearCache clears the template cache of the default engine.
func ClearCache() {
	DefaultEngine.ClearCache()
}

// SetCacheConfig replaces the default engine with one using the given cache
// settings. Templates cached so far are dropped but stay usable by holders.
func SetCacheConfig(maxSize int, ttl time.Duration) {
	config := GetGlobalConfig()
	config.CacheMaxSize = maxSize
	config.CacheTTL = ttl
	SetGlobalConfig(config)

	old := DefaultEngine
	DefaultEngine = NewWithConfig(config)
	old.Close()
}
