package docxmerge

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/expression"
	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/markup"
	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/render"
)

// ErrTemplateClosed is returned when rendering a template after Close.
var ErrTemplateClosed = errors.New("template is closed")

// Evaluator turns placeholder text into output text and resolves helper
// expressions to raw values. *expression.Evaluator is the default.
type Evaluator interface {
	Evaluate(text string, data map[string]any) (string, error)
	Lookup(code string, data map[string]any) (any, error)
}

// TemplateData represents the data context for rendering templates.
//
// Example:
//
//	data := TemplateData{
//	    "customer": "ACME Corp",
//	    "summary":  "## Findings\n\nAll checks **passed**.",
//	    "rows": [][]any{
//	        {"widget", 3, 19.99},
//	        {"gadget", 1, 29.99},
//	    },
//	}
type TemplateData map[string]interface{}

// PreparedTemplate is a tokenized template ready for rendering. It is never
// modified after Prepare, so one template can be rendered many times,
// including concurrently.
type PreparedTemplate struct {
	source    []byte
	tokens    []markup.Token
	areas     []markup.Area
	geometry  markup.PageGeometry
	nextRel   int
	evaluator Evaluator
	logger    *Logger
	config    Config

	closed bool
	mu     sync.RWMutex
}

type prepareOptions struct {
	evaluator Evaluator
	logger    *Logger
	config    *Config
}

func prepare(r io.Reader, opts prepareOptions) (*PreparedTemplate, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, NewPackagingError("read", "", err)
	}
	source := buf.Bytes()

	docx, err := NewDocxReader(bytes.NewReader(source), int64(len(source)))
	if err != nil {
		return nil, err
	}
	docXML, err := docx.GetDocumentXML()
	if err != nil {
		return nil, err
	}

	tokens, err := markup.Tokenize(docXML)
	if err != nil {
		return nil, NewMalformedDocumentError(PartDocument, "cannot tokenize markup", err)
	}
	areas, err := markup.FindAreas(tokens)
	if err != nil {
		return nil, NewMalformedDocumentError(PartDocument, "cannot resolve template areas", err)
	}
	if opts.evaluator == nil {
		opts.evaluator = expression.New()
	}
	if opts.logger == nil {
		opts.logger = GetLogger()
	}
	if opts.config == nil {
		opts.config = GetGlobalConfig()
	}

	geometry, err := markup.ReadPageGeometry(tokens)
	if errors.Is(err, markup.ErrNoPageGeometry) && opts.config.DefaultGeometry {
		opts.logger.Debug("no section properties, assuming US Letter page")
		geometry, err = markup.DefaultPageGeometry, nil
	}
	if err != nil {
		return nil, NewMalformedDocumentError(PartDocument, "cannot read page geometry", err)
	}
	nextRel, err := docx.NextRelationshipID()
	if err != nil {
		return nil, err
	}

	opts.logger.Debug("prepared template: %d tokens, %d template areas, next relationship rId%d",
		len(tokens), len(areas), nextRel)

	return &PreparedTemplate{
		source:    source,
		tokens:    tokens,
		areas:     areas,
		geometry:  geometry,
		nextRel:   nextRel,
		evaluator: opts.evaluator,
		logger:    opts.logger,
		config:    *opts.config,
	}, nil
}

// Geometry returns the page geometry read from the last section.
func (pt *PreparedTemplate) Geometry() markup.PageGeometry {
	return pt.geometry
}

// Areas returns the number of placeholder tokens found in the body.
func (pt *PreparedTemplate) Areas() int {
	return len(pt.areas)
}

// Render merges data into the template and returns the bytes of the new
// package. Placeholders that cannot be evaluated leave their paragraph as
// it was; only broken markup, unusable helper input and packaging failures
// are returned as errors.
func (pt *PreparedTemplate) Render(data TemplateData) ([]byte, error) {
	if pt == nil {
		return nil, ErrTemplateClosed
	}
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	if pt.closed {
		return nil, ErrTemplateClosed
	}

	docx, err := NewDocxReader(bytes.NewReader(pt.source), int64(len(pt.source)))
	if err != nil {
		return nil, err
	}

	var maxWidth int64
	if pt.config.ScaleImages {
		maxWidth = render.MaxImageWidth(pt.geometry)
	}
	r := &renderer{
		tokens:    pt.tokens,
		areas:     pt.areas,
		data:      data,
		evaluator: pt.evaluator,
		geometry:  pt.geometry,
		media:     render.NewMedia(pt.nextRel, docx.HasMedia),
		maxWidth:  maxWidth,
		logger:    pt.logger,
	}
	tokens, err := r.run()
	if err != nil {
		return nil, err
	}

	body, err := markup.Serialize(tokens)
	if err != nil {
		return nil, NewSerializationError(PartDocument, err)
	}

	return rebuild(docx, map[string][]byte{PartDocument: body}, r.media.Assets())
}

// RenderTo renders and writes the resulting package to w.
func (pt *PreparedTemplate) RenderTo(w io.Writer, data TemplateData) error {
	out, err := pt.Render(data)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return NewPackagingError("write", "", err)
	}
	return nil
}

func (pt *PreparedTemplate) isClosed() bool {
	if pt == nil {
		return true
	}
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return pt.closed
}

// Close releases the template. Rendering a closed template fails.
func (pt *PreparedTemplate) Close() error {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if pt.closed {
		return nil
	}
	pt.closed = true
	pt.source = nil
	pt.tokens = nil
	pt.areas = nil
	return nil
}
