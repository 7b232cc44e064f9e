package docxmerge

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Package part names used by the engine.
const (
	PartDocument      = "word/document.xml"
	PartDocumentRels  = "word/_rels/document.xml.rels"
	PartContentTypes  = "[Content_Types].xml"
	MediaDir          = "word/media/"
	relationshipIDTag = "rId"
)

var requiredParts = []string{PartDocument, PartDocumentRels, PartContentTypes}

// DocxReader gives named access to the entries of a DOCX package.
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// Relationship represents a relationship in the DOCX package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Relationship []Relationship `xml:"Relationship"`
}

// NewDocxReader opens a package and checks that the document body, its
// relationships and the content type registry are present.
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, NewPackagingError("open", "", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File, len(zipReader.File)),
	}
	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	for _, name := range requiredParts {
		if _, ok := dr.Parts[name]; !ok {
			return nil, NewPackagingError("open", name, fmt.Errorf("not a valid DOCX file: missing %s", name))
		}
	}
	return dr, nil
}

// DocxReaderFromFile reads a whole package file into memory and opens it
func DocxReaderFromFile(path string) (*DocxReader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewPackagingError("read", path, err)
	}
	return NewDocxReader(bytes.NewReader(content), int64(len(content)))
}

// Files returns the entries in archive order.
func (dr *DocxReader) Files() []*zip.File {
	return dr.reader.File
}

// HasPart reports whether the package holds an entry with the given name.
func (dr *DocxReader) HasPart(partName string) bool {
	_, ok := dr.Parts[partName]
	return ok
}

// GetPart retrieves the content of a specific part
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, NewPackagingError("read", partName, fmt.Errorf("part not found"))
	}

	rc, err := file.Open()
	if err != nil {
		return nil, NewPackagingError("open", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, NewPackagingError("read", partName, err)
	}
	return content, nil
}

// GetDocumentXML retrieves the content of word/document.xml
func (dr *DocxReader) GetDocumentXML() ([]byte, error) {
	return dr.GetPart(PartDocument)
}

// GetRelationshipsXML retrieves the content of word/_rels/document.xml.rels
func (dr *DocxReader) GetRelationshipsXML() ([]byte, error) {
	return dr.GetPart(PartDocumentRels)
}

// GetRelationships parses the relationships of the document body
func (dr *DocxReader) GetRelationships() ([]Relationship, error) {
	content, err := dr.GetRelationshipsXML()
	if err != nil {
		return nil, err
	}

	var rels Relationships
	if err := xml.Unmarshal(content, &rels); err != nil {
		return nil, NewMalformedDocumentError(PartDocumentRels, "cannot parse relationships", err)
	}
	return rels.Relationship, nil
}

// NextRelationshipID returns the number following the highest numeric rIdN
// of the document body relationships. Ids with other shapes are ignored.
func (dr *DocxReader) NextRelationshipID() (int, error) {
	rels, err := dr.GetRelationships()
	if err != nil {
		return 0, err
	}

	maxID := 0
	for _, rel := range rels {
		if !strings.HasPrefix(rel.ID, relationshipIDTag) {
			continue
		}
		if id, err := strconv.Atoi(rel.ID[len(relationshipIDTag):]); err == nil && id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

// HasMedia reports whether word/media already holds a file with the name.
func (dr *DocxReader) HasMedia(filename string) bool {
	return dr.HasPart(MediaDir + filename)
}
