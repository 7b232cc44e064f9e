package render

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/dataset"
	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/markup"
)

const (
	mimePNG   = "image/png"
	mimePlain = "text/plain"
)

// Notebook renders markdown cells as Markdown and code cell outputs as
// monospaced paragraphs and pictures. Code sources and raw cells are not
// rendered. A rich output shows its text/plain lines followed by its PNG
// picture. Outputs that cannot be rendered are skipped and reported in the
// returned errors; the rest of the notebook is still rendered.
func Notebook(nb dataset.Notebook, media *Media, maxWidth int64) ([]markup.Token, []error) {
	var out []markup.Token
	var skipped []error

	for ci, c := range nb.Cells {
		switch c.CellType {
		case dataset.CellMarkdown:
			out = append(out, Markdown(c.Source.String())...)
		case dataset.CellCode:
			for oi, o := range c.Outputs {
				tokens, err := output(o, media, maxWidth)
				out = append(out, tokens...)
				if err != nil {
					skipped = append(skipped, fmt.Errorf("cell %d output %d: %w", ci, oi, err))
				}
			}
		}
	}
	return out, skipped
}

func output(o dataset.Output, media *Media, maxWidth int64) ([]markup.Token, error) {
	switch o.OutputType {
	case dataset.OutputStream:
		return codeLines(o.Text.Lines()), nil
	case dataset.OutputExecuteResult, dataset.OutputDisplayData:
		var out []markup.Token
		if plain, ok := o.DataText(mimePlain); ok {
			out = codeLines(dataset.MultilineString(plain).Lines())
		}
		if encoded, ok := o.DataText(mimePNG); ok {
			pic, err := figure(encoded, media, maxWidth)
			if err != nil {
				return out, err
			}
			out = append(out, pic...)
		}
		return out, nil
	case dataset.OutputError:
		return CodeParagraph(o.EName + ": " + o.EValue), nil
	default:
		return nil, nil
	}
}

func codeLines(lines []string) []markup.Token {
	var out []markup.Token
	for _, line := range lines {
		out = append(out, CodeParagraph(line)...)
	}
	return out
}

func figure(encoded string, media *Media, maxWidth int64) ([]markup.Token, error) {
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(encoded), ""))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	w, h, err := ProbePNG(data)
	if err != nil {
		return nil, fmt.Errorf("read png size: %w", err)
	}
	asset, id := media.Add(data, w, h)
	return ImageParagraph(asset, id, maxWidth), nil
}
