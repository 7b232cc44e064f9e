package markup

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrSerialize is wrapped by every error raised while writing tokens.
var ErrSerialize = errors.New("cannot serialize markup")

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

// Serialize renders tokens back to markup bytes.
func Serialize(tokens []Token) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, tokens); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders tokens to w. A start token directly followed by its end token
// is written as a self-closing element.
func Write(w io.Writer, tokens []Token) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case KindStart:
			if tok.Name.Local == "" {
				return fmt.Errorf("%w: start element without a name at %d", ErrSerialize, i)
			}
			bw.WriteByte('<')
			bw.WriteString(tok.Name.String())
			for _, a := range tok.Attrs {
				bw.WriteByte(' ')
				bw.WriteString(a.Name.String())
				bw.WriteString(`="`)
				attrEscaper.WriteString(bw, a.Value)
				bw.WriteByte('"')
			}
			if i+1 < len(tokens) && tokens[i+1].Kind == KindEnd && sameName(tokens[i+1].Name, tok.Name) {
				bw.WriteString("/>")
				i++
				continue
			}
			bw.WriteByte('>')
		case KindEnd:
			if tok.Name.Local == "" {
				return fmt.Errorf("%w: end element without a name at %d", ErrSerialize, i)
			}
			bw.WriteString("</")
			bw.WriteString(tok.Name.String())
			bw.WriteByte('>')
		case KindText:
			textEscaper.WriteString(bw, tok.Text)
		case KindOther:
			bw.WriteString(tok.Text)
		default:
			return fmt.Errorf("%w: unknown token kind %d at %d", ErrSerialize, tok.Kind, i)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return nil
}

func sameName(a, b Name) bool {
	return a.Prefix == b.Prefix && a.Local == b.Local
}
