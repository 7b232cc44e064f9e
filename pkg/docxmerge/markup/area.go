package markup

import "fmt"

// Area is a classified token together with the bounds of its enclosing
// paragraph. Start and End are -1 when no paragraph encloses the token.
type Area struct {
	Token int
	Start int
	End   int
}

// Renderable reports whether both paragraph bounds were found.
func (a Area) Renderable() bool {
	return a.Start >= 0 && a.End >= 0
}

// FindAreas resolves the enclosing w:p of every classified token, in token order.
// Several tokens of one paragraph share the same Start.
func FindAreas(tokens []Token) ([]Area, error) {
	var areas []Area
	for i, tok := range tokens {
		if !tok.Classified() {
			continue
		}
		area := Area{
			Token: i,
			Start: paragraphStart(tokens, i),
			End:   paragraphEnd(tokens, i),
		}
		if (area.Start < 0) != (area.End < 0) {
			return nil, fmt.Errorf("%w: unbalanced paragraph around token %d", ErrMalformed, i)
		}
		areas = append(areas, area)
	}
	return areas, nil
}

func paragraphStart(tokens []Token, from int) int {
	depth := 0
	for i := from - 1; i >= 0; i-- {
		switch {
		case tokens[i].Is(KindEnd, NamespaceW, "p"):
			depth++
		case tokens[i].Is(KindStart, NamespaceW, "p"):
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

func paragraphEnd(tokens []Token, from int) int {
	depth := 0
	for i := from + 1; i < len(tokens); i++ {
		switch {
		case tokens[i].Is(KindStart, NamespaceW, "p"):
			depth++
		case tokens[i].Is(KindEnd, NamespaceW, "p"):
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}
