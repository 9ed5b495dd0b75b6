// Package sessionstore implementaciones del puerto SessionStorage.
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/idcr-client/internal/application/ports"
)

var _ ports.SessionStorage = (*FileStorage)(nil)

// FileStorage guarda los slots en un archivo JSON legible solo por el usuario (0600).
// Equivalente en CLI del localStorage del navegador.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage construye el almacenamiento; el archivo se crea en la primera escritura.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path ruta del archivo.
func (s *FileStorage) Path() string { return s.path }

func (s *FileStorage) Get(_ context.Context, slot string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := slots[slot]
	return v, ok, nil
}

func (s *FileStorage) Set(_ context.Context, slot, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slots, err := s.load()
	if err != nil {
		return err
	}
	slots[slot] = value
	return s.save(slots)
}

func (s *FileStorage) Delete(_ context.Context, slots ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.load()
	if err != nil {
		// Archivo corrupto: se descarta completo.
		return s.remove()
	}
	for _, slot := range slots {
		delete(current, slot)
	}
	if len(current) == 0 {
		return s.remove()
	}
	return s.save(current)
}

func (s *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sessionstore: leer %s: %w", s.path, err)
	}
	slots := map[string]string{}
	if len(data) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("sessionstore: archivo de sesión corrupto %s: %w", s.path, err)
	}
	return slots, nil
}

// save escribe a un temporal y renombra.
func (s *FileStorage) save(slots map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("sessionstore: crear directorio: %w", err)
	}
	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("sessionstore: temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("sessionstore: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileStorage) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("sessionstore: borrar %s: %w", s.path, err)
	}
	return nil
}
