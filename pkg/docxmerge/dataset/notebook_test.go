package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNotebook = `{
  "cells": [
    {"cell_type": "markdown", "metadata": {}, "source": ["# Results\n", "All good."]},
    {"cell_type": "code", "metadata": {}, "execution_count": 1, "source": "print(1)",
     "outputs": [
       {"output_type": "stream", "name": "stdout", "text": ["1\n", "2\n"]},
       {"output_type": "execute_result", "execution_count": 1, "metadata": {},
        "data": {"text/plain": ["42"], "image/png": "iVBORw0KGgo=\n"}}
     ]}
  ],
  "metadata": {},
  "nbformat": 4,
  "nbformat_minor": 5
}`

func TestNotebookFromString(t *testing.T) {
	nb, err := NotebookFromValue(sampleNotebook)
	require.NoError(t, err)
	require.Len(t, nb.Cells, 2)
	assert.Equal(t, 4, nb.NBFormat)

	assert.Equal(t, CellMarkdown, nb.Cells[0].CellType)
	assert.Equal(t, "# Results\nAll good.", nb.Cells[0].Source.String())

	outputs := nb.Cells[1].Outputs
	require.Len(t, outputs, 2)
	assert.Equal(t, []string{"1", "2"}, outputs[0].Text.Lines())

	text, ok := outputs[1].DataText("text/plain")
	assert.True(t, ok)
	assert.Equal(t, "42", text)

	png, ok := outputs[1].DataText("image/png")
	assert.True(t, ok)
	assert.Equal(t, "iVBORw0KGgo=\n", png)

	_, ok = outputs[1].DataText("text/html")
	assert.False(t, ok)
}

func TestNotebookFromDecodedJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(sampleNotebook), &v))

	nb, err := NotebookFromValue(v)
	require.NoError(t, err)
	assert.Len(t, nb.Cells, 2)
}

func TestNotebookFromValueErrors(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"number", 3},
		{"not json", "not a notebook"},
		{"no cells", map[string]any{"nbformat": 4}},
		{"bad source", `{"cells": [{"cell_type": "code", "source": 5}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NotebookFromValue(tt.value)
			assert.ErrorIs(t, err, ErrInvalidNotebook)
		})
	}
}

func TestMultilineStringLines(t *testing.T) {
	assert.Nil(t, MultilineString("").Lines())
	assert.Equal(t, []string{"a", "", "b"}, MultilineString("a\n\nb\n").Lines())
	assert.Equal(t, []string{"x", "y"}, MultilineString("x\r\ny").Lines())
}
