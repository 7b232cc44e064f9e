package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidNotebook is wrapped by all notebook conversion errors.
var ErrInvalidNotebook = errors.New("invalid notebook")

// Cell types and output types of the nbformat 4 schema.
const (
	CellMarkdown = "markdown"
	CellCode     = "code"
	CellRaw      = "raw"

	OutputStream        = "stream"
	OutputExecuteResult = "execute_result"
	OutputDisplayData   = "display_data"
	OutputError         = "error"
)

// MultilineString is a notebook text field, stored either as one string or
// as a list of lines that concatenate to the full text.
type MultilineString string

func (m *MultilineString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = MultilineString(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*m = MultilineString(strings.Join(lines, ""))
	return nil
}

func (m MultilineString) String() string {
	return string(m)
}

// Lines splits the text into lines without their terminators. A trailing
// newline does not produce an empty last line.
func (m MultilineString) Lines() []string {
	s := strings.TrimSuffix(strings.ReplaceAll(string(m), "\r\n", "\n"), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Notebook is the subset of a Jupyter notebook rendered by the jupyter helper.
type Notebook struct {
	Cells         []Cell         `json:"cells"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// Cell is one notebook cell.
type Cell struct {
	CellType string          `json:"cell_type"`
	Source   MultilineString `json:"source"`
	Outputs  []Output        `json:"outputs,omitempty"`
}

// Output is one code cell output.
type Output struct {
	OutputType string                     `json:"output_type"`
	Name       string                     `json:"name,omitempty"`
	Text       MultilineString            `json:"text,omitempty"`
	Data       map[string]json.RawMessage `json:"data,omitempty"`
	EName      string                     `json:"ename,omitempty"`
	EValue     string                     `json:"evalue,omitempty"`
}

// DataText returns a mime bundle entry as text, joining line lists.
func (o Output) DataText(mime string) (string, bool) {
	raw, ok := o.Data[mime]
	if !ok {
		return "", false
	}
	var m MultilineString
	if err := json.Unmarshal(raw, &m); err != nil {
		return "", false
	}
	return m.String(), true
}

// NotebookFromValue converts a context value into a Notebook. It accepts a
// Notebook, raw notebook JSON as string or bytes, or a decoded JSON object.
func NotebookFromValue(v any) (Notebook, error) {
	var raw []byte
	switch val := v.(type) {
	case Notebook:
		return val, nil
	case *Notebook:
		if val == nil {
			return Notebook{}, fmt.Errorf("%w: nil notebook", ErrInvalidNotebook)
		}
		return *val, nil
	case string:
		raw = []byte(val)
	case []byte:
		raw = val
	case json.RawMessage:
		raw = val
	case map[string]any:
		var err error
		if raw, err = json.Marshal(val); err != nil {
			return Notebook{}, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
		}
	default:
		return Notebook{}, fmt.Errorf("%w: unsupported value of type %T", ErrInvalidNotebook, v)
	}

	var nb Notebook
	if err := json.Unmarshal(raw, &nb); err != nil {
		return Notebook{}, fmt.Errorf("%w: %v", ErrInvalidNotebook, err)
	}
	if nb.Cells == nil {
		return Notebook{}, fmt.Errorf("%w: no cells", ErrInvalidNotebook)
	}
	return nb, nil
}
