package docxmerge

import (
	"fmt"
	"strings"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/dataset"
	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/markup"
	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/render"
)

// Block helper names.
const (
	HelperTable    = "table"
	HelperMarkdown = "markdown"
	HelperJupyter  = "jupyter"
)

// renderer holds the working state of one Render call.
type renderer struct {
	tokens    []markup.Token
	areas     []markup.Area
	data      map[string]any
	evaluator Evaluator
	geometry  markup.PageGeometry
	media     *render.Media
	maxWidth  int64
	logger    *Logger
}

// run copies the token stream, replacing each template paragraph once.
func (r *renderer) run() ([]markup.Token, error) {
	out := make([]markup.Token, 0, len(r.tokens))
	bookmark := 0
	seen := make(map[int]bool)

	for _, area := range r.areas {
		if !area.Renderable() {
			r.logger.Debug("placeholder at token %d is outside any paragraph, left unchanged", area.Token)
			continue
		}
		// Nested paragraphs are emitted by their enclosing area.
		if area.Start < bookmark || seen[area.Start] {
			continue
		}
		seen[area.Start] = true

		out = append(out, r.tokens[bookmark:area.Start]...)
		bookmark = area.End + 1

		rendered, err := r.paragraph(r.tokens[area.Start:bookmark])
		if err != nil {
			return nil, err
		}
		out = append(out, rendered...)
	}
	out = append(out, r.tokens[bookmark:]...)

	r.logger.Debug("rendered %d template paragraphs, %d images", len(seen), len(r.media.Assets()))
	return out, nil
}

func (r *renderer) paragraph(para []markup.Token) ([]markup.Token, error) {
	primary := -1
	for i, tok := range para {
		if tok.Classified() {
			primary = i
			break
		}
	}
	if primary < 0 {
		return para, nil
	}
	if para[primary].Class == markup.ClassBlock {
		return r.block(para, primary)
	}

	out, err := r.plain(para, primary, para[primary].Text)
	if err != nil || out == nil {
		return para, nil
	}
	return out, nil
}

// plain evaluates text and returns one copy of the paragraph per blank-line
// separated chunk of the result, with text in place of the primary token.
// Other placeholders of the paragraph are substituted in every copy. An
// empty result yields no tokens.
func (r *renderer) plain(para []markup.Token, primary int, text string) ([]markup.Token, error) {
	result, err := r.evaluate(text)
	if err != nil || result == "" {
		return nil, err
	}

	texts := make(map[int]string)
	for i, tok := range para {
		if i == primary || tok.Kind != markup.KindText || tok.Class != markup.ClassPlaceholder {
			continue
		}
		if v, err := r.evaluate(tok.Text); err == nil {
			texts[i] = v
		}
	}

	var out []markup.Token
	for _, chunk := range splitParagraphs(result) {
		texts[primary] = chunk
		out = append(out, render.Substitute(para, texts)...)
	}
	return out, nil
}

// block splits a helper token into literal segments and helper calls. The
// paragraph is replaced entirely by what they produce.
func (r *renderer) block(para []markup.Token, primary int) ([]markup.Token, error) {
	text := para[primary].Text
	var out []markup.Token

	literal := func(s string) {
		if strings.TrimSpace(s) == "" {
			return
		}
		tokens, err := r.plain(para, primary, s)
		if err != nil {
			tokens = render.Substitute(para, map[int]string{primary: s})
		}
		out = append(out, tokens...)
	}

	cursor := 0
	for _, ph := range markup.ParsePlaceholders(text) {
		literal(text[cursor:ph.Start])
		tokens, err := r.helper(ph)
		if err != nil {
			return nil, err
		}
		out = append(out, tokens...)
		cursor = ph.End
	}
	literal(text[cursor:])
	return out, nil
}

func (r *renderer) helper(ph markup.Placeholder) ([]markup.Token, error) {
	switch ph.Helper {
	case HelperTable, HelperMarkdown, HelperJupyter:
	default:
		r.logger.Debug("unknown helper %q, placeholder %q skipped", ph.Helper, ph.Expression)
		return nil, nil
	}

	value, err := r.evaluator.Lookup(ph.Expression, r.data)
	if err != nil {
		r.logger.Debug("%v", NewEvaluationError(ph.Expression, err))
		return nil, nil
	}
	if value == nil {
		return nil, nil
	}

	log := r.logger.WithFields(Fields{"helper": ph.Helper, "expression": ph.Expression})
	switch ph.Helper {
	case HelperTable:
		table, err := dataset.FromValue(value)
		if err != nil {
			return nil, NewInvalidInputError(ph.Helper, ph.Expression, err)
		}
		log.Debug("table with %d columns and %d rows", len(table.Columns), table.Rows())
		return render.Table(table, r.geometry), nil

	case HelperMarkdown:
		source, ok := value.(string)
		if !ok {
			return nil, NewInvalidInputError(ph.Helper, ph.Expression, fmt.Errorf("expected a string, got %T", value))
		}
		return render.Markdown(source), nil

	default:
		nb, err := dataset.NotebookFromValue(value)
		if err != nil {
			return nil, NewInvalidInputError(ph.Helper, ph.Expression, err)
		}
		tokens, skipped := render.Notebook(nb, r.media, r.maxWidth)
		if len(skipped) > 0 {
			errs := NewMultiError()
			for _, err := range skipped {
				errs.Add(err)
			}
			log.Warn("notebook outputs skipped: %v", errs.Err())
		}
		log.Debug("notebook with %d cells", len(nb.Cells))
		return tokens, nil
	}
}

func (r *renderer) evaluate(text string) (string, error) {
	result, err := r.evaluator.Evaluate(text, r.data)
	if err != nil {
		r.logger.Debug("%v", NewEvaluationError(text, err))
		return "", err
	}
	return result, nil
}

// splitParagraphs splits on blank lines, using CRLF separators when the
// text carries them.
func splitParagraphs(text string) []string {
	sep := "\n\n"
	if strings.Contains(text, "\r\n") {
		sep = "\r\n\r\n"
	}
	return strings.Split(text, sep)
}
