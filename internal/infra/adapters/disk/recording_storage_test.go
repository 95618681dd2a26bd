package disk

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qrave1/proctorlink/internal/domain"
)

// минимальный EBML заголовок webm
var webmHeader = []byte{0x1A, 0x45, 0xDF, 0xA3, 0x9F, 0x42, 0x86, 0x81, 0x01, 0x42, 0xF7, 0x81, 0x01,
	0x42, 0xF2, 0x81, 0x04, 0x42, 0xF3, 0x81, 0x08, 0x42, 0x82, 0x84, 0x77, 0x65, 0x62, 0x6D}

func newStorage(t *testing.T) RecordingStorage {
	t.Helper()

	s, err := NewRecordingStorage(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	return s
}

func TestRecordingStorage_AppendChunk(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newStorage(t)

	n, err := s.AppendChunk(ctx, "alice-s1.webm", strings.NewReader("first-"))
	req.NoError(err)
	req.Equal(int64(6), n)

	n, err = s.AppendChunk(ctx, "alice-s1.webm", strings.NewReader("second"))
	req.NoError(err)
	req.Equal(int64(6), n)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "alice-s1.webm"))
	req.NoError(err)
	req.Equal("first-second", string(data))
}

func TestRecordingStorage_RejectsUnsafeNames(t *testing.T) {
	s := newStorage(t)

	for _, name := range []string{"", ".", "..", "../escape.webm", "a/b.webm", `a\b.webm`} {
		t.Run(name, func(t *testing.T) {
			_, err := s.AppendChunk(context.Background(), name, strings.NewReader("x"))

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}

func TestRecordingStorage_Open(t *testing.T) {
	req := require.New(t)
	s := newStorage(t)

	_, err := s.Open("missing.webm")
	req.ErrorIs(err, domain.ErrNotFound)

	_, err = s.AppendChunk(context.Background(), "alice-s1.webm", strings.NewReader(string(webmHeader)))
	req.NoError(err)

	rec, err := s.Open("alice-s1.webm")
	req.NoError(err)
	defer rec.File.Close()

	req.Equal("alice-s1.webm", rec.Name)
	req.Equal("video/webm", rec.ContentType)

	// после определения типа файл читается с начала
	data, err := io.ReadAll(rec.File)
	req.NoError(err)
	req.Equal(webmHeader, data)
}

func TestRecordingStorage_OpenUnknownContentFallsBack(t *testing.T) {
	req := require.New(t)
	s := newStorage(t)

	_, err := s.AppendChunk(context.Background(), "raw.webm", strings.NewReader("not really a video"))
	req.NoError(err)

	rec, err := s.Open("raw.webm")
	req.NoError(err)
	defer rec.File.Close()

	req.Equal(DefaultContentType, rec.ContentType)
}

func TestRecordingStorage_Purge(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := newStorage(t)

	_, _ = s.AppendChunk(ctx, "a.webm", strings.NewReader("a"))
	_, _ = s.AppendChunk(ctx, "b.webm", strings.NewReader("b"))
	req.NoError(os.Mkdir(filepath.Join(s.Dir(), "nested"), 0o755))

	removed, err := s.Purge(ctx)
	req.NoError(err)
	req.Equal(2, removed)

	// повторный запуск ничего не ломает
	removed, err = s.Purge(ctx)
	req.NoError(err)
	req.Zero(removed)

	entries, err := os.ReadDir(s.Dir())
	req.NoError(err)
	req.Len(entries, 1)
	req.True(entries[0].IsDir())
}
