package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/qrave1/proctorlink/internal/application/constant"
	"github.com/qrave1/proctorlink/internal/application/metric"
	"github.com/qrave1/proctorlink/internal/domain"
	"github.com/qrave1/proctorlink/internal/domain/input"
	"github.com/qrave1/proctorlink/internal/domain/models"
	"github.com/qrave1/proctorlink/internal/infra/adapters/postgres/repository"
)

// LedgerUsecase - журнал distraction событий по сессиям экзамена
type LedgerUsecase interface {
	// RecordJoin пишет JOINED, только если у сессии ещё нет ни одной строки.
	// Проверка и вставка не атомарны, параллельные join одной сессии могут дать две строки.
	RecordJoin(ctx context.Context, sessionID, candidateName string) (bool, error)

	RecordEvent(ctx context.Context, in input.RecordEventInput) (int64, error)

	// MarkSubmitted returns domain.ErrNotFound when the session has no rows.
	MarkSubmitted(ctx context.Context, sessionID string) (int64, error)

	ListEvents(ctx context.Context, sessionID string) ([]*models.DistractionEvent, error)
	ListJoinedCandidates(ctx context.Context) ([]*models.DistractionEvent, error)
}

type ledgerUsecase struct {
	repo     repository.DistractionRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewLedgerUsecase(repo repository.DistractionRepository) LedgerUsecase {
	return &ledgerUsecase{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (l *ledgerUsecase) RecordJoin(ctx context.Context, sessionID, candidateName string) (bool, error) {
	exists, err := l.repo.ExistsBySession(ctx, sessionID)
	if err != nil {
		metric.RecordLedgerWrite("join", "error")
		return false, &domain.StorageError{Op: "check session", Err: err}
	}

	if exists {
		metric.RecordLedgerWrite("join", "skipped")
		return false, nil
	}

	_, err = l.repo.Insert(ctx, &models.DistractionEvent{
		SessionID:     sessionID,
		CandidateName: candidateName,
		EventName:     lo.ToPtr(models.EventJoined),
		StartTime:     l.now(),
	})
	if err != nil {
		metric.RecordLedgerWrite("join", "error")
		return false, &domain.StorageError{Op: "insert join", Err: err}
	}

	metric.RecordLedgerWrite("join", "ok")

	slog.Info(
		"candidate joined session",
		slog.String(constant.SessionID, sessionID),
		slog.String(constant.CandidateName, candidateName),
	)

	return true, nil
}

func (l *ledgerUsecase) RecordEvent(ctx context.Context, in input.RecordEventInput) (int64, error) {
	if err := l.validate.Struct(in); err != nil {
		return 0, toValidationError(err)
	}

	event := &models.DistractionEvent{
		SessionID:     in.SessionID,
		CandidateName: in.CandidateName,
		EventName:     in.EventName,
		EndTime:       in.EndTime,
		DurationSec:   in.DurationSec,
	}

	if in.StartTime != nil {
		event.StartTime = *in.StartTime
	}

	id, err := l.repo.Insert(ctx, event)
	if err != nil {
		metric.RecordLedgerWrite("event", "error")
		return 0, &domain.StorageError{Op: "insert event", Err: err}
	}

	metric.RecordLedgerWrite("event", "ok")

	return id, nil
}

func (l *ledgerUsecase) MarkSubmitted(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, &domain.ValidationError{Field: "sessionId", Reason: "required"}
	}

	rows, err := l.repo.MarkSubmitted(ctx, sessionID)
	if err != nil {
		metric.RecordLedgerWrite("submit", "error")
		return 0, &domain.StorageError{Op: "mark submitted", Err: err}
	}

	if rows == 0 {
		return 0, fmt.Errorf("session %q: %w", sessionID, domain.ErrNotFound)
	}

	metric.RecordLedgerWrite("submit", "ok")

	return rows, nil
}

func (l *ledgerUsecase) ListEvents(ctx context.Context, sessionID string) ([]*models.DistractionEvent, error) {
	rows, err := l.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, &domain.StorageError{Op: "list events", Err: err}
	}

	return emptyIfNil(rows), nil
}

func (l *ledgerUsecase) ListJoinedCandidates(ctx context.Context) ([]*models.DistractionEvent, error) {
	rows, err := l.repo.ListByEventName(ctx, models.EventJoined)
	if err != nil {
		return nil, &domain.StorageError{Op: "list candidates", Err: err}
	}

	return emptyIfNil(rows), nil
}

func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &domain.ValidationError{Reason: err.Error()}
	}

	fields := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
		return fe.Field()
	})

	return &domain.ValidationError{
		Field:  strings.Join(fields, ","),
		Reason: "missing fields",
	}
}

func emptyIfNil(rows []*models.DistractionEvent) []*models.DistractionEvent {
	if rows == nil {
		return []*models.DistractionEvent{}
	}

	return rows
}
