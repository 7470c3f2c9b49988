package formats

import (
	"io"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// JSONFormatter writes one JSON object per row. Empty cells are written as null.
type JSONFormatter struct {
	buf     []byte
	arena   *fastjson.Arena
	w       io.Writer
	columns []string
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{
		buf:   make([]byte, 0, 1024),
		arena: new(fastjson.Arena),
		w:     w,
	}
}

func (t *JSONFormatter) SetHeader(columns []string) {
	t.columns = columns
}

func (t *JSONFormatter) Write(row []string) error {
	if len(row) != len(t.columns) {
		return errors.Errorf("row has %d cells, header has %d columns", len(row), len(t.columns))
	}
	obj := t.arena.NewObject()
	for i := range t.columns {
		if row[i] == "" {
			obj.Set(t.columns[i], t.arena.NewNull())
		} else {
			obj.Set(t.columns[i], t.arena.NewString(row[i]))
		}
	}

	t.buf = obj.MarshalTo(t.buf)
	t.buf = append(t.buf, '\n')
	_, err := t.w.Write(t.buf)
	t.buf = t.buf[:0]
	t.arena.Reset()
	return err
}

func (t *JSONFormatter) Close() error {
	return nil
}
