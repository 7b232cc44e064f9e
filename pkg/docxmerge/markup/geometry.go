package markup

import (
	"fmt"
	"math"
	"strconv"
)

// PageGeometry holds page size and margins in twips (1/20 pt).
type PageGeometry struct {
	Width  int
	Height int
	Top    int
	Bottom int
	Left   int
	Right  int
	Header int
	Footer int
	Gutter int
}

// ErrNoPageGeometry is returned by ReadPageGeometry for a body with neither
// w:pgSz nor w:pgMar.
var ErrNoPageGeometry = fmt.Errorf("%w: no w:pgSz or w:pgMar in the body", ErrMalformed)

// DefaultPageGeometry is US Letter with one inch margins. Callers may fall
// back to it on ErrNoPageGeometry.
var DefaultPageGeometry = PageGeometry{
	Width:  12240,
	Height: 15840,
	Top:    1440,
	Bottom: 1440,
	Left:   1440,
	Right:  1440,
	Header: 720,
	Footer: 720,
}

// PrintableWidth is the page width minus side margins and gutter.
func (g PageGeometry) PrintableWidth() int {
	return g.Width - g.Left - g.Right - g.Gutter
}

// ReadPageGeometry reads w:pgSz and w:pgMar of the last section of the body.
// A document without either element yields ErrNoPageGeometry; an element
// that is present must carry every attribute.
func ReadPageGeometry(tokens []Token) (PageGeometry, error) {
	var size, margins *Token
	for i := range tokens {
		switch {
		case tokens[i].Is(KindStart, NamespaceW, "pgSz"):
			size = &tokens[i]
		case tokens[i].Is(KindStart, NamespaceW, "pgMar"):
			margins = &tokens[i]
		}
	}
	if size == nil && margins == nil {
		return PageGeometry{}, ErrNoPageGeometry
	}
	if size == nil {
		return PageGeometry{}, fmt.Errorf("%w: section properties without w:pgSz", ErrMalformed)
	}
	if margins == nil {
		return PageGeometry{}, fmt.Errorf("%w: section properties without w:pgMar", ErrMalformed)
	}

	var g PageGeometry
	fields := []struct {
		tok  *Token
		attr string
		dst  *int
	}{
		{size, "w", &g.Width},
		{size, "h", &g.Height},
		{margins, "top", &g.Top},
		{margins, "bottom", &g.Bottom},
		{margins, "left", &g.Left},
		{margins, "right", &g.Right},
		{margins, "header", &g.Header},
		{margins, "footer", &g.Footer},
		{margins, "gutter", &g.Gutter},
	}
	for _, f := range fields {
		raw, ok := f.tok.Attr(NamespaceW, f.attr)
		if !ok {
			return PageGeometry{}, fmt.Errorf("%w: %s is missing w:%s", ErrMalformed, f.tok.Name, f.attr)
		}
		v, err := parseMeasure(raw)
		if err != nil {
			return PageGeometry{}, fmt.Errorf("%w: %s w:%s: %v", ErrMalformed, f.tok.Name, f.attr, err)
		}
		*f.dst = v
	}
	return g, nil
}

func parseMeasure(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}
