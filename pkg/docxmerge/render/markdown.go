package render

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/markup"
)

// ListParagraphStyle is applied to list item paragraphs.
const ListParagraphStyle = "ListParagraph"

const bullet = "• "

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.Strikethrough)).Parser()

// Markdown converts Markdown source into paragraphs. Headings get the
// Heading1 to Heading6 styles, emphasis maps to italic, strong to bold,
// strikethrough to strike and code to the monospace font. HTML is dropped.
func Markdown(source string) []markup.Token {
	src := []byte(source)
	doc := markdownParser.Parse(text.NewReader(src))

	c := &mdConverter{src: src}
	_ = ast.Walk(doc, c.walk)
	return c.out
}

type mdList struct {
	ordered bool
	next    int
}

type mdConverter struct {
	src    []byte
	out    []markup.Token
	para   []markup.Token
	style  string
	open   bool
	bold   int
	italic int
	strike int
	code   int
	lists  []mdList
	// marker is the list prefix owed to the first paragraph of an item.
	marker string
}

func (c *mdConverter) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			c.begin(HeadingStyle(node.Level))
		} else {
			c.end()
		}
	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			c.beginBlock()
		} else {
			c.end()
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				c.out = append(c.out, CodeParagraph(strings.TrimRight(string(line.Value(c.src)), "\r\n"))...)
			}
		}
		return ast.WalkSkipChildren, nil
	case *ast.ThematicBreak:
		if entering {
			c.out = append(c.out, EmptyParagraph()...)
		}
	case *ast.List:
		if entering {
			c.lists = append(c.lists, mdList{ordered: node.IsOrdered(), next: node.Start})
		} else {
			c.lists = c.lists[:len(c.lists)-1]
		}
	case *ast.ListItem:
		if entering && len(c.lists) > 0 {
			l := &c.lists[len(c.lists)-1]
			c.marker = bullet
			if l.ordered {
				c.marker = fmt.Sprintf("%d. ", l.next)
				l.next++
			}
		}
	case *ast.Emphasis:
		delta := 1
		if !entering {
			delta = -1
		}
		if node.Level >= 2 {
			c.bold += delta
		} else {
			c.italic += delta
		}
	case *extast.Strikethrough:
		if entering {
			c.strike++
		} else {
			c.strike--
		}
	case *ast.CodeSpan:
		if entering {
			c.code++
		} else {
			c.code--
		}
	case *ast.Text:
		if entering {
			c.text(string(node.Value(c.src)))
			if node.HardLineBreak() {
				c.ensureOpen()
				c.para = append(c.para, Break()...)
			} else if node.SoftLineBreak() {
				c.text(" ")
			}
		}
	case *ast.String:
		if entering {
			c.text(string(node.Value))
		}
	case *ast.AutoLink:
		if entering {
			c.text(string(node.Label(c.src)))
		}
		return ast.WalkSkipChildren, nil
	case *ast.HTMLBlock, *ast.RawHTML, *ast.Image:
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

// beginBlock opens a body paragraph, or a list paragraph inside a list item.
func (c *mdConverter) beginBlock() {
	if len(c.lists) == 0 {
		c.begin("")
		return
	}
	c.begin(ListParagraphStyle)
	if c.marker != "" {
		c.para = append(c.para, Run(c.marker, RunStyle{})...)
		c.marker = ""
	}
}

func (c *mdConverter) begin(style string) {
	c.end()
	c.style = style
	c.open = true
}

func (c *mdConverter) end() {
	if !c.open {
		return
	}
	c.out = append(c.out, Paragraph(c.style, c.para...)...)
	c.para = nil
	c.style = ""
	c.open = false
}

func (c *mdConverter) ensureOpen() {
	if !c.open {
		c.beginBlock()
	}
}

func (c *mdConverter) text(s string) {
	if s == "" {
		return
	}
	c.ensureOpen()
	c.para = append(c.para, Run(s, RunStyle{
		Bold:   c.bold > 0,
		Italic: c.italic > 0,
		Strike: c.strike > 0,
		Code:   c.code > 0,
	})...)
}
