package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrTooLarge возвращается, когда файл превышает лимит
	ErrTooLarge = errors.New("files: file exceeds size limit")

	// ErrInvalidName возвращается для имен, выходящих за пределы каталога
	ErrInvalidName = errors.New("files: invalid file name")

	// ErrWrite возвращается при ошибке записи на диск
	ErrWrite = errors.New("files: failed to write file")
)

// Store хранилище загруженных файлов в локальном каталоге
type Store struct {
	dir string
}

// NewStore создает хранилище и каталог, если его нет
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create dir %s: %v", ErrWrite, dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir каталог хранилища
func (s *Store) Dir() string {
	return s.dir
}

// Save записывает не более maxBytes из r в файл name
// Файл появляется под своим именем только после успешной записи целиком
func (s *Store) Save(name string, r io.Reader, maxBytes int64) (int64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("%w: create temp file: %v", ErrWrite, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, io.LimitReader(r, maxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if n > maxBytes {
		return 0, ErrTooLarge
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("%w: rename: %v", ErrWrite, err)
	}
	return n, nil
}

// Remove удаляет файл; отсутствие файла не считается ошибкой
func (s *Store) Remove(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}
