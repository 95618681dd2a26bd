package input

import "time"

type RecordEventInput struct {
	SessionID     string `validate:"required"`
	CandidateName string `validate:"required"`
	EventName     *string

	// StartTime nil - время записи в журнал
	StartTime   *time.Time
	EndTime     *time.Time
	DurationSec *int64
}
