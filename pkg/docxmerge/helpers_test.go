package docxmerge

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/markup"
)

const testDocumentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`

const testDocumentFooter = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr></w:body></w:document>`

const testRelationships = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings" Target="settings.xml"/>
  <Relationship Id="custom" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="theme/theme1.xml"/>
</Relationships>`

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const testPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

type docxEntry struct {
	name    string
	content string
}

// testDocument wraps body paragraphs in a complete document part.
func testDocument(body string) string {
	return testDocumentHeader + body + testDocumentFooter
}

// buildDocx creates a package around the given body. Entries in extra are
// added after the standard parts, replacing standard parts of the same name.
func buildDocx(t testing.TB, body string, extra ...docxEntry) []byte {
	t.Helper()

	entries := []docxEntry{
		{PartContentTypes, testContentTypes},
		{"_rels/.rels", testPackageRels},
		{PartDocument, testDocument(body)},
		{PartDocumentRels, testRelationships},
		{"word/styles.xml", `<?xml version="1.0"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`},
	}
	for _, e := range extra {
		replaced := false
		for i := range entries {
			if entries[i].name == e.name {
				entries[i] = e
				replaced = true
			}
		}
		if !replaced {
			entries = append(entries, e)
		}
	}
	return zipEntries(t, entries)
}

func zipEntries(t testing.TB, entries []docxEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, e.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// readEntries returns the entry names in archive order and their contents.
func readEntries(t testing.TB, data []byte) ([]string, map[string][]byte) {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	contents := make(map[string][]byte)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		names = append(names, f.Name)
		contents[f.Name] = content
	}
	return names, contents
}

func testEngine() *Engine {
	return NewWithOptions(WithCache(0), WithLogger(NewLogger(nil, LogDebug)))
}

// renderDocx prepares and renders a package, returning the output entries.
func renderDocx(t testing.TB, pkg []byte, data TemplateData) map[string][]byte {
	t.Helper()
	tmpl, err := testEngine().Prepare(bytes.NewReader(pkg))
	require.NoError(t, err)
	defer tmpl.Close()

	out, err := tmpl.Render(data)
	require.NoError(t, err)
	_, entries := readEntries(t, out)
	return entries
}

// renderBody renders a body and returns the resulting document part.
func renderBody(t testing.TB, body string, data TemplateData) string {
	t.Helper()
	return string(renderDocx(t, buildDocx(t, body), data)[PartDocument])
}

// paragraphTexts returns the text of each top level body paragraph.
func paragraphTexts(t testing.TB, document string) []string {
	t.Helper()
	tokens, err := markup.Tokenize([]byte(document))
	require.NoError(t, err)

	var texts []string
	var b strings.Builder
	depth := 0
	for _, tok := range tokens {
		switch {
		case tok.Is(markup.KindStart, markup.NamespaceW, "p"):
			if depth == 0 {
				b.Reset()
			}
			depth++
		case tok.Is(markup.KindEnd, markup.NamespaceW, "p"):
			depth--
			if depth == 0 {
				texts = append(texts, b.String())
			}
		case tok.Kind == markup.KindText && depth > 0:
			b.WriteString(tok.Text)
		}
	}
	return texts
}

func pngData(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// notebookJSON returns an nbformat 4 notebook with a markdown cell and a
// code cell that printed a line and displayed a figure of the given size.
func notebookJSON(t testing.TB, w, h int) string {
	t.Helper()
	nb := map[string]any{
		"nbformat":       4,
		"nbformat_minor": 5,
		"metadata":       map[string]any{},
		"cells": []any{
			map[string]any{"cell_type": "markdown", "source": []string{"# Analysis\n", "Done."}},
			map[string]any{
				"cell_type": "code",
				"source":    "plot()",
				"outputs": []any{
					map[string]any{"output_type": "stream", "name": "stdout", "text": []string{"ok\n"}},
					map[string]any{
						"output_type": "display_data",
						"data": map[string]any{
							"image/png":  base64.StdEncoding.EncodeToString(pngData(t, w, h)),
							"text/plain": "<Figure>",
						},
					},
				},
			},
		},
	}
	b, err := json.Marshal(nb)
	require.NoError(t, err)
	return string(b)
}
