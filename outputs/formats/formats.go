package formats

import (
	"io"

	"github.com/pkg/errors"
)

// Formatter writes rows of named string columns.
type Formatter interface {
	SetHeader(columns []string)
	Write(row []string) error
	Close() error
}

var ErrUnknownFormat = errors.New("unknown output format")

func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "'%s', available formats are table, csv and json", format)
}
