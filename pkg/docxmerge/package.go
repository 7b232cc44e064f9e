package docxmerge

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/markup"
	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/render"
)

// entryMode is applied to every entry of a rebuilt package.
const entryMode = 0644

// rebuild writes a new package with the entries of docx in their original
// order. Entries named in replaced get the new content. Image assets are
// appended under word/media and registered in the document relationships
// and the content type registry; without assets those two parts are copied
// as they are. Every entry is written with Deflate and entryMode.
func rebuild(docx *DocxReader, replaced map[string][]byte, assets []render.ImageAsset) ([]byte, error) {
	patched := make(map[string][]byte, len(replaced)+2)
	for name, content := range replaced {
		patched[name] = content
	}
	if len(assets) > 0 {
		rels, err := docx.GetRelationshipsXML()
		if err != nil {
			return nil, err
		}
		if patched[PartDocumentRels], err = addImageRelationships(rels, assets); err != nil {
			return nil, err
		}
		types, err := docx.GetPart(PartContentTypes)
		if err != nil {
			return nil, err
		}
		if patched[PartContentTypes], err = ensurePNGContentType(types); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	document := docx.Parts[PartDocument]
	for _, file := range docx.Files() {
		content, ok := patched[file.Name]
		if !ok {
			var err error
			if content, err = docx.GetPart(file.Name); err != nil {
				return nil, err
			}
		}
		if err := writeEntry(w, file.Name, file.FileHeader, content); err != nil {
			return nil, err
		}
	}

	for _, asset := range assets {
		if err := writeEntry(w, MediaDir+asset.Filename, document.FileHeader, asset.Data); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, NewPackagingError("write", "", err)
	}
	return buf.Bytes(), nil
}

// writeEntry adds one entry, keeping the modification time of like.
func writeEntry(w *zip.Writer, name string, like zip.FileHeader, content []byte) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: like.Modified,
	}
	header.SetMode(entryMode)

	fw, err := w.CreateHeader(header)
	if err != nil {
		return NewPackagingError("create", name, err)
	}
	if _, err := io.Copy(fw, bytes.NewReader(content)); err != nil {
		return NewPackagingError("write", name, err)
	}
	return nil
}

// addImageRelationships appends one image relationship per asset.
func addImageRelationships(rels []byte, assets []render.ImageAsset) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rels); err != nil {
		return nil, NewMalformedDocumentError(PartDocumentRels, "cannot parse relationships", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, NewMalformedDocumentError(PartDocumentRels, "no root element", nil)
	}

	for _, asset := range assets {
		rel := root.CreateElement("Relationship")
		rel.CreateAttr("Id", asset.RelID)
		rel.CreateAttr("Type", markup.RelationshipTypeImage)
		rel.CreateAttr("Target", "media/"+asset.Filename)
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, NewSerializationError(PartDocumentRels, err)
	}
	return out, nil
}

// ensurePNGContentType registers the png extension unless a Default for it
// already exists.
func ensurePNGContentType(types []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(types); err != nil {
		return nil, NewMalformedDocumentError(PartContentTypes, "cannot parse content types", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, NewMalformedDocumentError(PartContentTypes, "no root element", nil)
	}

	for _, def := range root.SelectElements("Default") {
		if strings.EqualFold(def.SelectAttrValue("Extension", ""), "png") {
			return types, nil
		}
	}
	def := root.CreateElement("Default")
	def.CreateAttr("Extension", "png")
	def.CreateAttr("ContentType", "image/png")

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, NewSerializationError(PartContentTypes, err)
	}
	return out, nil
}
