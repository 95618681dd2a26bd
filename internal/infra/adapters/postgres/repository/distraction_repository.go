package repository

//go:generate mockgen -source=distraction_repository.go -destination=../../../../usecase/mocks/mock_distraction_repository.go -package=mocks

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/qrave1/proctorlink/internal/domain/models"
)

type DistractionRepository interface {
	// ExistsBySession сообщает, есть ли в журнале хоть одна строка сессии
	ExistsBySession(ctx context.Context, sessionID string) (bool, error)

	// Insert returns the id of the new row. A zero StartTime means "now".
	Insert(ctx context.Context, event *models.DistractionEvent) (int64, error)

	// MarkSubmitted sets is_submit on every row of the session and returns rows affected.
	MarkSubmitted(ctx context.Context, sessionID string) (int64, error)

	ListBySession(ctx context.Context, sessionID string) ([]*models.DistractionEvent, error)
	ListByEventName(ctx context.Context, eventName string) ([]*models.DistractionEvent, error)
}

type distractionRepo struct {
	db *sqlx.DB
}

func NewDistractionRepo(db *sqlx.DB) DistractionRepository {
	return &distractionRepo{db: db}
}

func (r *distractionRepo) ExistsBySession(ctx context.Context, sessionID string) (bool, error) {
	var exists bool

	err := r.db.GetContext(
		ctx,
		&exists,
		"SELECT EXISTS (SELECT 1 FROM distractions WHERE session_id = $1)",
		sessionID,
	)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *distractionRepo) Insert(ctx context.Context, event *models.DistractionEvent) (int64, error) {
	var startTime any
	if !event.StartTime.IsZero() {
		startTime = event.StartTime
	}

	var id int64

	err := r.db.GetContext(
		ctx,
		&id,
		`INSERT INTO distractions (session_id, candidate_name, is_submit, event_name, start_time, end_time, duration_sec)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), $6, $7)
		RETURNING id`,
		event.SessionID,
		event.CandidateName,
		event.IsSubmit,
		event.EventName,
		startTime,
		event.EndTime,
		event.DurationSec,
	)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *distractionRepo) MarkSubmitted(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(
		ctx,
		"UPDATE distractions SET is_submit = TRUE WHERE session_id = $1",
		sessionID,
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *distractionRepo) ListBySession(ctx context.Context, sessionID string) ([]*models.DistractionEvent, error) {
	var rows []*models.DistractionEvent

	err := r.db.SelectContext(
		ctx,
		&rows,
		"SELECT * FROM distractions WHERE session_id = $1 ORDER BY start_time ASC, id ASC",
		sessionID,
	)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *distractionRepo) ListByEventName(ctx context.Context, eventName string) ([]*models.DistractionEvent, error) {
	var rows []*models.DistractionEvent

	err := r.db.SelectContext(
		ctx,
		&rows,
		"SELECT * FROM distractions WHERE event_name = $1 ORDER BY start_time DESC, id DESC",
		eventName,
	)
	if err != nil {
		return nil, err
	}

	return rows, nil
}
