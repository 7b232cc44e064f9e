// Package render builds WordprocessingML token sequences for generated content.
//
// Every function here is a pure builder: it takes typed input (text, a
// dataset.Table, a dataset.Notebook, Markdown source) and returns the tokens to
// splice into the document in place of a template paragraph. Nothing in this
// package reads or writes the package archive; new images are only recorded in
// a Media allocator so the caller can add them to the archive afterwards.
//
// # Structure Organization
//
//   - paragraph.go: runs, plain, code and heading paragraphs
//   - table.go: tables with evenly split column widths
//   - image.go: image assets, relationship id allocation, inline drawings
//   - markdown.go: Markdown to paragraphs via goldmark
//   - notebook.go: Jupyter notebooks to paragraphs and figures
//
// The package imports markup and dataset but never the docxmerge package,
// so it can be tested without building documents.
//
// Example:
//
//	tokens := render.Table(table, geometry)
//	tokens = append(tokens, render.Markdown("# Summary\n\nAll *good*.")...)
package render
