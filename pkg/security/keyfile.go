package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/shopgen/pkg/errors"
)

// KeySize is the length in bytes of a field encryption key.
const KeySize = 32

// Key is a raw symmetric secret.
type Key []byte

// GetOrCreateKey returns the key stored at path, generating and persisting a new
// one when the file does not exist yet.
func GetOrCreateKey(path string) (Key, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(data) != KeySize {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "key file has unexpected length").
				WithDetails(map[string]any{"path": path, "length": len(data), "expected": KeySize})
		}
		return Key(data), nil
	case errors.Is(err, fs.ErrNotExist):
		return createKey(path)
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read key file").WithDetails(path)
	}
}

func createKey(path string) (Key, error) {
	key := make(Key, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate key")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create key directory").WithDetails(dir)
		}
	}

	if err := writeKey(path, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist key file").WithDetails(path)
	}
	return key, nil
}

func writeKey(path string, key Key) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	n, err := f.Write(key)
	if err != nil {
		return err
	}
	if n != len(key) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(key))
	}
	return f.Sync()
}
