// Package fsutil reúne operaciones de archivo sobre afero compartidas por el libro y los backups.
package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// WriteAtomic escribe el contenido en un temporal del mismo directorio y lo renombra
// sobre path. Si algo falla el archivo original queda intacto.
func WriteAtomic(fs afero.Fs, path string, src io.WriterTo) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	f, err := fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	if _, err := src.WriteTo(f); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmp)
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = fs.Remove(tmp)
		return fmt.Errorf("sync temporal: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("reemplazar %s: %w", path, err)
	}
	return nil
}

// WriteBytesAtomic atajo de WriteAtomic para contenido ya en memoria.
func WriteBytesAtomic(fs afero.Fs, path string, data []byte) error {
	return WriteAtomic(fs, path, bytes.NewReader(data))
}

// Exists indica si path existe y es un archivo regular.
func Exists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
