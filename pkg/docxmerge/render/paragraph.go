package render

import (
	"fmt"
	"strconv"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/markup"
)

// MonospaceFont is used for code and notebook output.
const MonospaceFont = "Consolas"

// CodeFontSize is the notebook output size in half-points.
const CodeFontSize = 16

var preserveSpace = markup.Attr{
	Name:  markup.Name{Prefix: "xml", Local: "space", Space: markup.NamespaceXML},
	Value: "preserve",
}

// RunStyle selects the character formatting of a run.
type RunStyle struct {
	Bold   bool
	Italic bool
	Strike bool
	Code   bool
	// Size in half-points, 0 keeps the paragraph default.
	Size int
}

func (s RunStyle) properties() []markup.Token {
	var props []markup.Token
	if s.Code {
		props = append(props, markup.Empty(markup.W("rFonts"),
			markup.WAttr("ascii", MonospaceFont),
			markup.WAttr("hAnsi", MonospaceFont),
			markup.WAttr("cs", MonospaceFont))...)
	}
	if s.Bold {
		props = append(props, markup.Empty(markup.W("b"))...)
		props = append(props, markup.Empty(markup.W("bCs"))...)
	}
	if s.Italic {
		props = append(props, markup.Empty(markup.W("i"))...)
		props = append(props, markup.Empty(markup.W("iCs"))...)
	}
	if s.Strike {
		props = append(props, markup.Empty(markup.W("strike"))...)
	}
	if s.Size > 0 {
		size := strconv.Itoa(s.Size)
		props = append(props, markup.Empty(markup.W("sz"), markup.WAttr("val", size))...)
		props = append(props, markup.Empty(markup.W("szCs"), markup.WAttr("val", size))...)
	}
	if len(props) == 0 {
		return nil
	}
	return markup.Wrap(markup.W("rPr"), nil, props...)
}

// Run returns a text run.
func Run(text string, style RunStyle) []markup.Token {
	inner := style.properties()
	inner = append(inner, markup.Wrap(markup.W("t"), []markup.Attr{preserveSpace}, markup.Text(text))...)
	return markup.Wrap(markup.W("r"), nil, inner...)
}

// Break returns a run holding a line break.
func Break() []markup.Token {
	return markup.Wrap(markup.W("r"), nil, markup.Empty(markup.W("br"))...)
}

// Paragraph wraps runs in a paragraph with an optional paragraph style.
func Paragraph(style string, runs ...markup.Token) []markup.Token {
	var inner []markup.Token
	if style != "" {
		inner = markup.Wrap(markup.W("pPr"), nil, markup.Empty(markup.W("pStyle"), markup.WAttr("val", style))...)
	}
	inner = append(inner, runs...)
	return markup.Wrap(markup.W("p"), nil, inner...)
}

// PlainParagraph returns a paragraph with one unformatted run.
func PlainParagraph(text string) []markup.Token {
	return Paragraph("", Run(text, RunStyle{})...)
}

// EmptyParagraph returns a paragraph without runs.
func EmptyParagraph() []markup.Token {
	return markup.Empty(markup.W("p"))
}

// CodeParagraph returns a monospaced paragraph.
func CodeParagraph(text string) []markup.Token {
	return Paragraph("", Run(text, RunStyle{Code: true, Size: CodeFontSize})...)
}

// HeadingStyle is the paragraph style of a heading level, 1 to 6.
func HeadingStyle(level int) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return fmt.Sprintf("Heading%d", level)
}

// Substitute copies a paragraph replacing the text of the tokens at the given
// offsets. Everything else, including run formatting, is kept.
func Substitute(paragraph []markup.Token, texts map[int]string) []markup.Token {
	out := make([]markup.Token, len(paragraph))
	copy(out, paragraph)
	for i, text := range texts {
		out[i] = markup.Text(text)
	}
	return out
}
