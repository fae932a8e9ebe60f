package export

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
)

const indent = "  "

// Encode writes v as indented JSON without HTML escaping, followed by a newline.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode json")
	}
	return nil
}

// WriteJSONFile replaces path with the indented JSON form of v. The document is
// written to a temporary sibling and renamed into place, so readers never see a
// partial file.
func WriteJSONFile(path string, v any) error {
	return WriteFile(path, func(w io.Writer) error {
		return Encode(w, v)
	})
}

// WriteFile replaces path with whatever fill writes. Content goes to a temporary
// sibling that is renamed into place only when fill succeeds.
func WriteFile(path string, fill func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("create output directory %s", dir))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("create temp file for %s", path))
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp.Name())
		}
	}()

	buf := bufio.NewWriter(tmp)
	if err := fill(buf); err != nil {
		return multierr.Append(err, tmp.Close())
	}
	if err := buf.Flush(); err != nil {
		return multierr.Append(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flush output"), tmp.Close())
	}
	if err := tmp.Sync(); err != nil {
		return multierr.Append(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync output"), tmp.Close())
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close output")
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "chmod output")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("rename output to %s", path))
	}
	committed = true
	return nil
}

// WriteLinesFile replaces path with one compact JSON document per record.
func WriteLinesFile[T any](ctx context.Context, path string, records []T) error {
	return WriteFile(path, func(w io.Writer) error {
		lw := NewLineWriter(w)
		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := lw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
