package markup

// Placeholder is one helper invocation inside a block token's text.
// Start and End are byte offsets of the whole {{...}} marker.
type Placeholder struct {
	Helper     string
	Expression string
	Start      int
	End        int
}

// Classify assigns the template class of a text. Helper grammar wins over the
// plain marker grammar.
func Classify(text string) Class {
	switch {
	case len(helperMatches(text)) > 0:
		return ClassBlock
	case markerPattern.MatchString(text):
		return ClassPlaceholder
	default:
		return ClassPlain
	}
}

// ParsePlaceholders returns the helper placeholders of text in offset order.
func ParsePlaceholders(text string) []Placeholder {
	matches := helperMatches(text)
	placeholders := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		placeholders = append(placeholders, Placeholder{
			Helper:     text[m[2]:m[3]],
			Expression: text[m[4]:m[5]],
			Start:      m[0],
			End:        m[1],
		})
	}
	return placeholders
}

// wordOperators are the expression keywords that read like a helper call,
// as in {{not paid}} or {{code in allowed}}.
var wordOperators = map[string]bool{
	"not":        true,
	"and":        true,
	"or":         true,
	"in":         true,
	"matches":    true,
	"contains":   true,
	"startsWith": true,
	"endsWith":   true,
	"let":        true,
}

// helperMatches returns the submatch indices of helper calls in text,
// leaving out markers that are expressions built with a word operator.
func helperMatches(text string) [][]int {
	var matches [][]int
	for _, m := range helperPattern.FindAllStringSubmatchIndex(text, -1) {
		if wordOperators[text[m[2]:m[3]]] || wordOperators[leadingWord(text[m[4]:m[5]])] {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

func leadingWord(s string) string {
	for i, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return s[:i]
		}
	}
	return s
}
