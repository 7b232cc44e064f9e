package docxmerge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDocx(t *testing.T, data []byte) *DocxReader {
	t.Helper()
	dr, err := NewDocxReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return dr
}

func TestDocxReaderParts(t *testing.T) {
	dr := openDocx(t, buildDocx(t, `<w:p/>`, docxEntry{MediaDir + "image1.png", "png"}))

	assert.True(t, dr.HasPart(PartDocument))
	assert.True(t, dr.HasPart("word/styles.xml"))
	assert.False(t, dr.HasPart("word/numbering.xml"))
	assert.True(t, dr.HasMedia("image1.png"))
	assert.False(t, dr.HasMedia("figure-1.png"))
	assert.Len(t, dr.Files(), 6)
	assert.Equal(t, PartContentTypes, dr.Files()[0].Name)

	doc, err := dr.GetDocumentXML()
	require.NoError(t, err)
	assert.Contains(t, string(doc), "<w:p/>")

	_, err = dr.GetPart("word/missing.xml")
	assert.True(t, IsPackagingError(err))
}

func TestDocxReaderRelationships(t *testing.T) {
	dr := openDocx(t, buildDocx(t, `<w:p/>`))

	rels, err := dr.GetRelationships()
	require.NoError(t, err)
	require.Len(t, rels, 3)
	assert.Equal(t, "rId5", rels[1].ID)
	assert.Equal(t, "settings.xml", rels[1].Target)

	next, err := dr.NextRelationshipID()
	require.NoError(t, err)
	assert.Equal(t, 6, next)
}

func TestDocxReaderNextRelationshipIDEmpty(t *testing.T) {
	dr := openDocx(t, buildDocx(t, `<w:p/>`, docxEntry{PartDocumentRels,
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`}))

	next, err := dr.NextRelationshipID()
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestDocxReaderMissingParts(t *testing.T) {
	for _, missing := range requiredParts {
		t.Run(missing, func(t *testing.T) {
			var entries []docxEntry
			for _, e := range []docxEntry{
				{PartContentTypes, testContentTypes},
				{PartDocument, testDocument("")},
				{PartDocumentRels, testRelationships},
			} {
				if e.name != missing {
					entries = append(entries, e)
				}
			}
			data := zipEntries(t, entries)
			_, err := NewDocxReader(bytes.NewReader(data), int64(len(data)))
			require.Error(t, err)
			assert.True(t, IsPackagingError(err))
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestDocxReaderFromFileMissing(t *testing.T) {
	_, err := DocxReaderFromFile(t.TempDir() + "/absent.docx")
	assert.True(t, IsPackagingError(err))
}
