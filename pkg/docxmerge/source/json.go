package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrNotObject is returned when a JSON document is not an object.
var ErrNotObject = errors.New("data must be a JSON object")

// JSONFile loads a JSON object from a file.
type JSONFile struct {
	Path string
}

func (j JSONFile) Load(ctx context.Context) (map[string]any, error) {
	content, err := os.ReadFile(j.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", j.Path, err)
	}
	data, err := DecodeJSON(content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", j.Path, err)
	}
	return data, nil
}

// DecodeJSON decodes a JSON object. Numbers decode as float64.
func DecodeJSON(content []byte) (map[string]any, error) {
	content = bytes.TrimSpace(content)
	if len(content) == 0 || content[0] != '{' {
		return nil, ErrNotObject
	}
	var data map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	return data, nil
}
