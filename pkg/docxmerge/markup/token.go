package markup

// Kind identifies what a token represents in the markup.
type Kind int

const (
	KindStart Kind = iota
	KindEnd
	KindText
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindText:
		return "text"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Class is the template classification of a text token.
type Class int

const (
	ClassPlain Class = iota
	ClassPlaceholder
	ClassBlock
)

func (c Class) String() string {
	switch c {
	case ClassPlain:
		return "plain"
	case ClassPlaceholder:
		return "placeholder"
	case ClassBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Name is an element or attribute name as written in the source.
// Space holds the resolved namespace URI, Prefix the literal prefix.
type Name struct {
	Prefix string
	Local  string
	Space  string
}

func (n Name) String() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// Attr is a single attribute. Order is preserved by the owning token.
type Attr struct {
	Name  Name
	Value string
}

// Token is one unit of markup. Structural tokens carry Name and Attrs,
// text tokens carry Text and Class. KindOther keeps the raw markup of
// declarations, comments and directives in Text.
type Token struct {
	Kind  Kind
	Name  Name
	Attrs []Attr
	Text  string
	Class Class
}

// Is reports whether the token is a start or end of the given element.
func (t Token) Is(kind Kind, space, local string) bool {
	return t.Kind == kind && t.Name.Local == local && t.Name.Space == space
}

// Classified reports whether the token holds template markers.
func (t Token) Classified() bool {
	return t.Kind == KindText && t.Class != ClassPlain
}

// Attr returns the value of the first attribute with the given namespace and local name.
func (t Token) Attr(space, local string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value, true
		}
	}
	return "", false
}

// W returns a WordprocessingML name with the conventional w prefix.
func W(local string) Name {
	return Name{Prefix: "w", Local: local, Space: NamespaceW}
}

// WAttr returns a WordprocessingML attribute.
func WAttr(local, value string) Attr {
	return Attr{Name: W(local), Value: value}
}

// NewAttr returns an attribute without a namespace.
func NewAttr(local, value string) Attr {
	return Attr{Name: Name{Local: local}, Value: value}
}

// XMLNS returns a prefixed namespace declaration attribute.
func XMLNS(prefix, uri string) Attr {
	return Attr{Name: Name{Prefix: "xmlns", Local: prefix, Space: wellKnownPrefixes["xmlns"]}, Value: uri}
}

// Start returns a start element token.
func Start(name Name, attrs ...Attr) Token {
	return Token{Kind: KindStart, Name: name, Attrs: attrs}
}

// End returns an end element token.
func End(name Name) Token {
	return Token{Kind: KindEnd, Name: name}
}

// Text returns a classified text token.
func Text(s string) Token {
	return Token{Kind: KindText, Text: s, Class: Classify(s)}
}

// Empty returns a start token immediately followed by its end token.
func Empty(name Name, attrs ...Attr) []Token {
	return []Token{Start(name, attrs...), End(name)}
}

// Wrap surrounds inner tokens with a start and end element.
func Wrap(name Name, attrs []Attr, inner ...Token) []Token {
	out := make([]Token, 0, len(inner)+2)
	out = append(out, Start(name, attrs...))
	out = append(out, inner...)
	return append(out, End(name))
}
