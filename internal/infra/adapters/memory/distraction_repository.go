package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/qrave1/proctorlink/internal/domain/models"
	"github.com/qrave1/proctorlink/internal/infra/adapters/postgres/repository"
)

// distractionRepository - журнал в памяти для STORAGE_DRIVER=memory и тестов
type distractionRepository struct {
	rows   []models.DistractionEvent
	nextID int64
	mu     sync.RWMutex

	now func() time.Time
}

func NewDistractionRepository() repository.DistractionRepository {
	return &distractionRepository{
		nextID: 1,
		now:    time.Now,
	}
}

func (r *distractionRepository) ExistsBySession(_ context.Context, sessionID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.ContainsBy(r.rows, func(row models.DistractionEvent) bool {
		return row.SessionID == sessionID
	}), nil
}

func (r *distractionRepository) Insert(_ context.Context, event *models.DistractionEvent) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := *event
	row.ID = r.nextID
	if row.StartTime.IsZero() {
		row.StartTime = r.now()
	}

	r.nextID++
	r.rows = append(r.rows, row)

	return row.ID, nil
}

func (r *distractionRepository) MarkSubmitted(_ context.Context, sessionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64

	for i := range r.rows {
		if r.rows[i].SessionID == sessionID {
			r.rows[i].IsSubmit = true
			affected++
		}
	}

	return affected, nil
}

func (r *distractionRepository) ListBySession(_ context.Context, sessionID string) ([]*models.DistractionEvent, error) {
	rows := r.filter(func(row models.DistractionEvent) bool {
		return row.SessionID == sessionID
	})

	slices.SortStableFunc(rows, func(a, b *models.DistractionEvent) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return rows, nil
}

func (r *distractionRepository) ListByEventName(_ context.Context, eventName string) ([]*models.DistractionEvent, error) {
	rows := r.filter(func(row models.DistractionEvent) bool {
		return row.EventName != nil && *row.EventName == eventName
	})

	slices.SortStableFunc(rows, func(a, b *models.DistractionEvent) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	return rows, nil
}

// filter отдаёт копии, чтобы вызывающий не мог поменять журнал
func (r *distractionRepository) filter(keep func(models.DistractionEvent) bool) []*models.DistractionEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.FilterMap(r.rows, func(row models.DistractionEvent, _ int) (*models.DistractionEvent, bool) {
		if !keep(row) {
			return nil, false
		}

		cp := row
		return &cp, true
	})
}
