package expression

import (
	"fmt"
	"regexp"
	"strings"
)

var markerPattern = regexp.MustCompile(`\{\{\s*([#/]?)\s*([^{}]*?)\s*\}\}`)

type nodeKind int

const (
	nodeText nodeKind = iota
	nodeExpr
	nodeIf
	nodeUnless
	nodeEach
)

type node struct {
	kind nodeKind
	text string
	expr string
	body []node
	alt  []node
}

type frame struct {
	node   node
	name   string
	inElse bool
}

func (f *frame) add(n node) {
	if f.inElse {
		f.node.alt = append(f.node.alt, n)
	} else {
		f.node.body = append(f.node.body, n)
	}
}

var blockKinds = map[string]nodeKind{
	"if":     nodeIf,
	"unless": nodeUnless,
	"each":   nodeEach,
}

// parse splits text into literal and marker nodes, nesting block markers.
func parse(text string) ([]node, error) {
	stack := []*frame{{}}
	last := 0

	for _, m := range markerPattern.FindAllStringSubmatchIndex(text, -1) {
		top := stack[len(stack)-1]
		if m[0] > last {
			top.add(node{kind: nodeText, text: text[last:m[0]]})
		}
		last = m[1]

		sigil := text[m[2]:m[3]]
		body := text[m[4]:m[5]]

		switch sigil {
		case "#":
			name, arg, _ := strings.Cut(body, " ")
			kind, ok := blockKinds[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown block %q", ErrSyntax, name)
			}
			if strings.TrimSpace(arg) == "" {
				return nil, fmt.Errorf("%w: block %q needs an expression", ErrSyntax, name)
			}
			stack = append(stack, &frame{node: node{kind: kind, expr: strings.TrimSpace(arg)}, name: name})
		case "/":
			if len(stack) == 1 {
				return nil, fmt.Errorf("%w: unexpected {{/%s}}", ErrSyntax, body)
			}
			if body != top.name {
				return nil, fmt.Errorf("%w: {{#%s}} closed by {{/%s}}", ErrSyntax, top.name, body)
			}
			stack = stack[:len(stack)-1]
			stack[len(stack)-1].add(top.node)
		default:
			if body == "else" {
				if len(stack) == 1 || top.inElse {
					return nil, fmt.Errorf("%w: unexpected {{else}}", ErrSyntax)
				}
				top.inElse = true
				continue
			}
			top.add(node{kind: nodeExpr, expr: body})
		}
	}

	if len(stack) > 1 {
		return nil, fmt.Errorf("%w: {{#%s}} is never closed", ErrSyntax, stack[len(stack)-1].name)
	}
	if last < len(text) {
		stack[0].add(node{kind: nodeText, text: text[last:]})
	}
	return stack[0].node.body, nil
}
