package markup

// Namespace URIs used by the generated markup.
const (
	NamespaceW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NamespaceA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespacePic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	NamespaceXML = "http://www.w3.org/XML/1998/namespace"

	NamespacePackageRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	NamespaceContentTypes         = "http://schemas.openxmlformats.org/package/2006/content-types"

	RelationshipTypeImage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// wellKnownPrefixes resolves prefixes that never need a declaration.
var wellKnownPrefixes = map[string]string{
	"xml":   NamespaceXML,
	"xmlns": "http://www.w3.org/2000/xmlns/",
}
