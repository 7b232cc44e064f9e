package render

import (
	"strconv"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/dataset"
	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/markup"
)

// ColumnWidths splits total twips into n columns. The remainder goes to the
// leading columns so the widths always sum to total.
func ColumnWidths(total, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	base, rem := total/n, total%n
	for i := range widths {
		widths[i] = base
		if i < rem {
			widths[i]++
		}
	}
	return widths
}

// Table renders one row per record and one cell per column, spanning the
// printable width of the page. No header row is emitted. An empty table
// renders nothing. The table must have been validated, cells that fail to
// format are left empty.
func Table(t dataset.Table, g markup.PageGeometry) []markup.Token {
	if len(t.Columns) == 0 || t.Rows() == 0 {
		return nil
	}
	widths := ColumnWidths(g.PrintableWidth(), len(t.Columns))

	props := markup.Empty(markup.W("tblStyle"), markup.WAttr("val", "TableGrid"))
	props = append(props, markup.Empty(markup.W("tblW"), markup.WAttr("w", "0"), markup.WAttr("type", "auto"))...)
	props = append(props, markup.Empty(markup.W("tblLook"),
		markup.WAttr("val", "04A0"),
		markup.WAttr("firstRow", "1"),
		markup.WAttr("lastRow", "0"),
		markup.WAttr("firstColumn", "1"),
		markup.WAttr("lastColumn", "0"),
		markup.WAttr("noHBand", "0"),
		markup.WAttr("noVBand", "1"))...)

	var grid []markup.Token
	for _, w := range widths {
		grid = append(grid, markup.Empty(markup.W("gridCol"), markup.WAttr("w", strconv.Itoa(w)))...)
	}

	inner := markup.Wrap(markup.W("tblPr"), nil, props...)
	inner = append(inner, markup.Wrap(markup.W("tblGrid"), nil, grid...)...)
	for r := 0; r < t.Rows(); r++ {
		var cells []markup.Token
		for c, col := range t.Columns {
			cells = append(cells, cell(col.Kind, t.Cell(r, c), widths[c])...)
		}
		inner = append(inner, markup.Wrap(markup.W("tr"), nil, cells...)...)
	}
	return markup.Wrap(markup.W("tbl"), nil, inner...)
}

func cell(kind dataset.Kind, v any, width int) []markup.Token {
	inner := markup.Wrap(markup.W("tcPr"), nil,
		markup.Empty(markup.W("tcW"), markup.WAttr("w", strconv.Itoa(width)), markup.WAttr("type", "dxa"))...)

	text, err := dataset.Format(kind, v)
	if err != nil || v == nil {
		inner = append(inner, EmptyParagraph()...)
	} else {
		inner = append(inner, PlainParagraph(text)...)
	}
	return markup.Wrap(markup.W("tc"), nil, inner...)
}
