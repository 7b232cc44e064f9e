package expression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	data := map[string]any{
		"name":     "World",
		"price":    10.0,
		"count":    3,
		"premium":  true,
		"customer": map[string]any{"city": "Berlin"},
		"items": []any{
			map[string]any{"product": "Widget", "qty": 2},
			map[string]any{"product": "Gadget", "qty": 1},
		},
		"empty": []any{},
		"when":  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain text", "no markers", "no markers"},
		{"simple", "Hello {{name}}!", "Hello World!"},
		{"spaces inside marker", "Hello {{ name }}!", "Hello World!"},
		{"arithmetic", "{{price * 1.5}}", "15"},
		{"integer", "{{count}} items", "3 items"},
		{"nested", "{{customer.city}}", "Berlin"},
		{"builtin", "{{upper(name)}}", "WORLD"},
		{"time", "{{when}}", "2024-01-02 03:04:05"},
		{"if true", "{{#if premium}}gold{{/if}}", "gold"},
		{"if else", "{{#if count > 5}}many{{else}}few{{/if}}", "few"},
		{"unless", "{{#unless premium}}basic{{else}}premium{{/unless}}", "premium"},
		{"each", "{{#each items}}{{@index}}:{{product}}x{{qty}};{{/each}}", "0:Widgetx2;1:Gadgetx1;"},
		{"each this", "{{#each customer}}{{@key}}={{this}}{{/each}}", "city=Berlin"},
		{"each empty else", "{{#each empty}}x{{else}}none{{/each}}", "none"},
		{"each outer names", "{{#each items}}{{name}}{{/each}}", "WorldWorld"},
		{"first and last", "{{#each items}}{{#if @first}}[{{/if}}{{product}}{{#if @last}}]{{/if}}{{/each}}", "[WidgetGadget]"},
		{"multiline", "Line one\n\nLine {{count}}", "Line one\n\nLine 3"},
	}

	ev := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Evaluate(tt.text, data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateStrict(t *testing.T) {
	data := map[string]any{
		"nothing":  nil,
		"customer": map[string]any{"city": "Berlin"},
	}

	tests := []struct {
		name string
		text string
	}{
		{"undefined name", "Hello {{missing}}"},
		{"nil value", "{{nothing}}"},
		{"missing nested key", "{{customer.zip}}"},
		{"bad syntax", "{{1 +}}"},
		{"unknown block", "{{#with customer}}x{{/with}}"},
		{"unclosed block", "{{#if true}}x"},
		{"mismatched close", "{{#if true}}x{{/each}}"},
		{"stray close", "x{{/if}}"},
		{"stray else", "{{else}}"},
		{"empty marker", "{{}}"},
	}

	ev := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ev.Evaluate(tt.text, data)
			assert.Error(t, err)
		})
	}
}

func TestLookup(t *testing.T) {
	rows := []any{[]any{1, 2}}
	data := map[string]any{"report": map[string]any{"rows": rows}, "nothing": nil}
	ev := New()

	v, err := ev.Lookup("report.rows", data)
	require.NoError(t, err)
	assert.Equal(t, rows, v)

	v, err = ev.Lookup("nothing", data)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = ev.Lookup("absent", data)
	assert.Error(t, err)
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(0))
	assert.False(t, Truthy([]any{}))
	assert.False(t, Truthy(map[string]any{}))
	assert.True(t, Truthy("x"))
	assert.True(t, Truthy(2.5))
	assert.True(t, Truthy([]string{"a"}))
	assert.True(t, Truthy(struct{}{}))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "2.5", Stringify(2.5))
	assert.Equal(t, "3", Stringify(3.0))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "[1 2]", Stringify([]int{1, 2}))
}
