package markup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed is wrapped by every error caused by unreadable markup.
var ErrMalformed = errors.New("malformed markup")

// tokenizer collects tokens while feeding text through an Accumulator.
type tokenizer struct {
	tokens  []Token
	acc     Accumulator
	// pending holds the fragments of the current accumulation with the
	// index of the text token each one reserved.
	pending []fragment
	scopes  []map[string]string
	open    []Name

	// paragraphs counts closed w:p elements.
	paragraphs int
}

type fragment struct {
	slot      int
	text      string
	paragraph int
}

// Tokenize converts markup into tokens, reassembling template markers that
// span several text nodes. Structural tokens are emitted as soon as they are
// read; each text fragment swallowed by a pending marker leaves an empty text
// token behind and the reassembled text lands in the slot of the fragment
// that completed it. When the fragments do not form a marker after all, or
// the input ends while a marker is still open, every fragment goes back to
// its own slot. On any decoding error no tokens are returned.
func Tokenize(data []byte) ([]Token, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true

	t := &tokenizer{
		scopes: []map[string]string{{}},
	}

	for {
		raw, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch v := raw.(type) {
		case xml.StartElement:
			t.start(v)
		case xml.EndElement:
			if err := t.end(v); err != nil {
				return nil, err
			}
		case xml.CharData:
			t.text(string(v))
		case xml.ProcInst:
			pi := "<?" + v.Target
			if len(v.Inst) > 0 {
				pi += " " + string(v.Inst)
			}
			t.tokens = append(t.tokens, Token{Kind: KindOther, Text: pi + "?>"})
		case xml.Comment:
			t.tokens = append(t.tokens, Token{Kind: KindOther, Text: "<!--" + string(v) + "-->"})
		case xml.Directive:
			t.tokens = append(t.tokens, Token{Kind: KindOther, Text: "<!" + string(v) + ">"})
		}
	}

	if len(t.open) > 0 {
		return nil, fmt.Errorf("%w: element %s is never closed", ErrMalformed, t.open[len(t.open)-1])
	}
	t.flush()

	return t.tokens, nil
}

func (t *tokenizer) start(e xml.StartElement) {
	scope := make(map[string]string)
	for _, a := range e.Attr {
		switch {
		case a.Name.Space == "xmlns":
			scope[a.Name.Local] = a.Value
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			scope[""] = a.Value
		}
	}
	t.scopes = append(t.scopes, scope)

	name := Name{Prefix: e.Name.Space, Local: e.Name.Local}
	name.Space = t.resolve(name.Prefix)

	attrs := make([]Attr, len(e.Attr))
	for i, a := range e.Attr {
		attrs[i] = Attr{Name: Name{Prefix: a.Name.Space, Local: a.Name.Local}, Value: a.Value}
		if a.Name.Space != "" {
			attrs[i].Name.Space = t.resolve(a.Name.Space)
		}
	}

	t.open = append(t.open, name)
	t.tokens = append(t.tokens, Token{Kind: KindStart, Name: name, Attrs: attrs})
}

func (t *tokenizer) end(e xml.EndElement) error {
	name := Name{Prefix: e.Name.Space, Local: e.Name.Local}
	if len(t.open) == 0 {
		return fmt.Errorf("%w: unexpected end element %s", ErrMalformed, name)
	}
	top := t.open[len(t.open)-1]
	if top.Prefix != name.Prefix || top.Local != name.Local {
		return fmt.Errorf("%w: element %s closed by %s", ErrMalformed, top, name)
	}
	name.Space = top.Space

	t.open = t.open[:len(t.open)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
	t.tokens = append(t.tokens, Token{Kind: KindEnd, Name: name})
	if name.Space == NamespaceW && name.Local == "p" {
		t.paragraphs++
	}
	return nil
}

func (t *tokenizer) text(s string) {
	if t.acc.Accumulating() && isLayout(s) {
		t.tokens = append(t.tokens, Token{Kind: KindText, Text: s})
		return
	}

	t.tokens = append(t.tokens, Token{Kind: KindText})
	t.feed(fragment{slot: len(t.tokens) - 1, text: s, paragraph: t.paragraphs})
}

func (t *tokenizer) feed(f fragment) {
	t.acc = t.acc.Next(f.text)
	t.pending = append(t.pending, f)

	text, ok := t.acc.Result()
	if !ok {
		return
	}
	if len(t.pending) > 1 && !t.coalescable(text) {
		t.restart()
		return
	}
	t.tokens[f.slot] = Token{Kind: KindText, Text: text, Class: Classify(text)}
	t.acc = Accumulator{}
	t.pending = nil
}

// coalescable reports whether the pending fragments form markers. Only
// block markers may span paragraphs.
func (t *tokenizer) coalescable(text string) bool {
	if !wellFormed(text) {
		return false
	}
	first, last := t.pending[0], t.pending[len(t.pending)-1]
	return first.paragraph == last.paragraph || hasBlockOpen(text)
}

// restart keeps the fragment that opened the current accumulation as
// written and feeds the ones after it again, so markers following a stray
// brace are still found.
func (t *tokenizer) restart() {
	pending := t.pending
	t.acc = Accumulator{}
	t.pending = nil

	first := pending[0]
	t.tokens[first.slot] = Token{Kind: KindText, Text: first.text, Class: Classify(first.text)}
	for _, f := range pending[1:] {
		t.feed(f)
	}
}

// flush resolves an accumulation still open at end of input.
func (t *tokenizer) flush() {
	for len(t.pending) > 0 {
		t.restart()
	}
}

func (t *tokenizer) resolve(prefix string) string {
	if uri, ok := wellKnownPrefixes[prefix]; ok {
		return uri
	}
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if uri, ok := t.scopes[i][prefix]; ok {
			return uri
		}
	}
	return ""
}

// PlainText concatenates the text of all text tokens, useful in tests and logs.
func PlainText(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Kind == KindText {
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}
