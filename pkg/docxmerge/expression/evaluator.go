// Package expression evaluates placeholder text against template data.
//
// Marker contents are expr-lang expressions, so {{name}}, {{price * 1.2}} and
// {{upper(customer.city)}} all work. Three block forms are understood:
//
//	{{#if cond}}...{{else}}...{{/if}}
//	{{#unless cond}}...{{/unless}}
//	{{#each list}}{{@index}}: {{this}}{{/each}}
//
// Expressions led by a word operator, such as {{not paid}} or
// {{code in allowed}}, are never taken for block helper calls.
//
// Evaluation is strict: a name that is not defined, or an expression that
// yields nil, is an error rather than an empty string.
package expression

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
)

// ErrNoValue is returned when an expression evaluates to nil.
var ErrNoValue = errors.New("expression has no value")

// ErrSyntax is wrapped by block structure errors.
var ErrSyntax = errors.New("template syntax error")

// Loop variables are exposed under identifier-safe names.
var loopVars = strings.NewReplacer("@index", "_index", "@key", "_key", "@first", "_first", "@last", "_last")

// Evaluator evaluates placeholder text. It holds no state and is safe for
// concurrent use.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate renders text, replacing every marker with its value.
func (e *Evaluator) Evaluate(text string, data map[string]any) (string, error) {
	nodes, err := parse(text)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := e.render(&b, nodes, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Lookup evaluates a single expression and returns its raw value.
// A nil value is returned as nil without an error.
func (e *Evaluator) Lookup(code string, data map[string]any) (any, error) {
	return run(code, data)
}

func (e *Evaluator) render(b *strings.Builder, nodes []node, env map[string]any) error {
	for _, n := range nodes {
		switch n.kind {
		case nodeText:
			b.WriteString(n.text)
		case nodeExpr:
			v, err := run(n.expr, env)
			if err != nil {
				return err
			}
			if v == nil {
				return fmt.Errorf("%w: %s", ErrNoValue, n.expr)
			}
			b.WriteString(Stringify(v))
		case nodeIf, nodeUnless:
			v, err := run(n.expr, env)
			if err != nil {
				return err
			}
			branch := n.body
			if Truthy(v) == (n.kind == nodeUnless) {
				branch = n.alt
			}
			if err := e.render(b, branch, env); err != nil {
				return err
			}
		case nodeEach:
			v, err := run(n.expr, env)
			if err != nil {
				return err
			}
			items := iterate(v)
			if len(items) == 0 {
				if err := e.render(b, n.alt, env); err != nil {
					return err
				}
				continue
			}
			for i, it := range items {
				if err := e.render(b, n.body, scope(env, it, i, len(items))); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func run(code string, env map[string]any) (any, error) {
	code = loopVars.Replace(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	program, err := expr.Compile(code, expr.Env(env))
	if err != nil {
		return nil, err
	}
	return expr.Run(program, env)
}

type item struct {
	key   string
	value any
}

// iterate lists the elements of a slice, or the values of a map in key order.
func iterate(v any) []item {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]item, rv.Len())
		for i := range items {
			items[i] = item{key: strconv.Itoa(i), value: rv.Index(i).Interface()}
		}
		return items
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		items := make([]item, len(keys))
		for i, k := range keys {
			items[i] = item{key: fmt.Sprint(k.Interface()), value: rv.MapIndex(k).Interface()}
		}
		return items
	default:
		return nil
	}
}

// scope derives the environment of one loop iteration. Keys of a map item
// shadow outer names.
func scope(parent map[string]any, it item, index, count int) map[string]any {
	env := make(map[string]any, len(parent)+6)
	for k, v := range parent {
		env[k] = v
	}
	if m, ok := it.value.(map[string]any); ok {
		for k, v := range m {
			env[k] = v
		}
	}
	env["this"] = it.value
	env["_index"] = index
	env["_key"] = it.key
	env["_first"] = index == 0
	env["_last"] = index == count-1
	return env
}

// Truthy reports whether a value counts as true in a condition.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

// Stringify renders a value for document text.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}
