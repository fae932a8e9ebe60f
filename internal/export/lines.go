package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
)

// LineWriter emits JSON Lines.
type LineWriter struct {
	enc *json.Encoder
}

func NewLineWriter(w io.Writer) *LineWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &LineWriter{enc: enc}
}

// Write appends v as a single line.
func (w *LineWriter) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode json line")
	}
	return nil
}

// LineFunc receives the 1-based line number and the line with surrounding
// whitespace trimmed.
type LineFunc func(lineNo int, line []byte) error

// ScanLines calls fn for every line of r, blank ones included. A trailing line
// without a newline is still delivered. Returning an error from fn stops the
// scan and is passed through unchanged.
func ScanLines(ctx context.Context, r io.Reader, fn LineFunc) error {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, readErr := br.ReadBytes('\n')
		if len(raw) > 0 {
			lineNo++
			if err := fn(lineNo, bytes.TrimSpace(raw)); err != nil {
				return err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, readErr, "read lines")
		}
	}
}

// ReadLines is ScanLines with blank lines skipped. Line numbers still count them.
func ReadLines(ctx context.Context, r io.Reader, fn LineFunc) error {
	return ScanLines(ctx, r, func(lineNo int, line []byte) error {
		if len(line) == 0 {
			return nil
		}
		return fn(lineNo, line)
	})
}
