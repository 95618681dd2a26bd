package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/qrave1/proctorlink/internal/domain"
)

// DefaultContentType отдаём, если mimetype не распознал файл
const DefaultContentType = "video/webm"

type Recording struct {
	File        *os.File
	Name        string
	ModTime     time.Time
	ContentType string
}

// RecordingStorage - append-only файлы записей в одной директории
type RecordingStorage interface {
	AppendChunk(ctx context.Context, filename string, body io.Reader) (int64, error)

	// Open returns domain.ErrNotFound for a missing file. The caller closes Recording.File.
	Open(filename string) (*Recording, error)

	// Purge removes every regular file in the directory and is safe to repeat.
	Purge(ctx context.Context) (int, error)

	Dir() string
}

type recordingStorage struct {
	dir string
}

func NewRecordingStorage(dir string) (RecordingStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &recordingStorage{dir: dir}, nil
}

func (s *recordingStorage) Dir() string {
	return s.dir
}

func (s *recordingStorage) AppendChunk(ctx context.Context, filename string, body io.Reader) (int64, error) {
	path, err := s.path(filename)
	if err != nil {
		return 0, err
	}

	if err = ctx.Err(); err != nil {
		return 0, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		return n, fmt.Errorf("append %s: %w", filename, err)
	}

	return n, nil
}

func (s *recordingStorage) Open(filename string) (*Recording, error) {
	path, err := s.path(filename)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}

		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", filename, err)
	}

	if !info.Mode().IsRegular() {
		f.Close()
		return nil, domain.ErrNotFound
	}

	contentType := DefaultContentType

	mt, err := mimetype.DetectReader(f)
	if err == nil && !mt.Is("application/octet-stream") && !mt.Is("text/plain") {
		contentType = mt.String()
	}

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("rewind %s: %w", filename, err)
	}

	return &Recording{
		File:        f,
		Name:        info.Name(),
		ModTime:     info.ModTime(),
		ContentType: contentType,
	}, nil
}

func (s *recordingStorage) Purge(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}

		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	var removed int

	for _, entry := range entries {
		if err = ctx.Err(); err != nil {
			return removed, err
		}

		if !entry.Type().IsRegular() {
			continue
		}

		err = os.Remove(filepath.Join(s.dir, entry.Name()))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove %s: %w", entry.Name(), err)
		}

		removed++
	}

	return removed, nil
}

// path пропускает только одиночное имя файла внутри директории загрузок
func (s *recordingStorage) path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		filename != filepath.Base(filename) || strings.ContainsAny(filename, `/\`) {
		return "", &domain.ValidationError{Field: "filename", Reason: "unsafe file name"}
	}

	return filepath.Join(s.dir, filename), nil
}
