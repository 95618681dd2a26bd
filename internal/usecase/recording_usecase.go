package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/qrave1/proctorlink/internal/application/constant"
	"github.com/qrave1/proctorlink/internal/application/metric"
	"github.com/qrave1/proctorlink/internal/infra/adapters/disk"
)

const (
	UnknownCandidate = "unknown"
	UnknownSession   = "session_unknown"

	recordingExt = ".webm"
)

type RecordingUsecase interface {
	// AppendChunk дописывает кусок записи в <candidate>-<session>.webm
	AppendChunk(ctx context.Context, candidateName, sessionID string, body io.Reader) (int64, error)
	FinishUpload(ctx context.Context, sessionID string)

	Open(filename string) (*disk.Recording, error)

	// Sweep удаляет все записи, к журналу не прикасается
	Sweep(ctx context.Context) (int, error)
}

type recordingUsecase struct {
	storage disk.RecordingStorage
}

func NewRecordingUsecase(storage disk.RecordingStorage) RecordingUsecase {
	return &recordingUsecase{storage: storage}
}

func RecordingFilename(candidateName, sessionID string) string {
	if candidateName == "" {
		candidateName = UnknownCandidate
	}

	if sessionID == "" {
		sessionID = UnknownSession
	}

	return candidateName + "-" + sessionID + recordingExt
}

func (r *recordingUsecase) AppendChunk(ctx context.Context, candidateName, sessionID string, body io.Reader) (int64, error) {
	filename := RecordingFilename(candidateName, sessionID)

	n, err := r.storage.AppendChunk(ctx, filename, body)
	if err != nil {
		return n, fmt.Errorf("append chunk: %w", err)
	}

	metric.AddUploadBytes(n)

	return n, nil
}

func (r *recordingUsecase) FinishUpload(_ context.Context, sessionID string) {
	slog.Info("upload finished", slog.String(constant.SessionID, sessionID))
}

func (r *recordingUsecase) Open(filename string) (*disk.Recording, error) {
	return r.storage.Open(filename)
}

func (r *recordingUsecase) Sweep(ctx context.Context) (int, error) {
	removed, err := r.storage.Purge(ctx)
	if err != nil {
		return removed, fmt.Errorf("purge uploads: %w", err)
	}

	slog.Info("uploads swept", slog.Int(constant.Count, removed))

	return removed, nil
}
