package models

import "time"

// EventJoined - имя события, которое релей пишет при первом входе в сессию
const EventJoined = "JOINED"

type DistractionEvent struct {
	ID            int64      `db:"id" json:"id"`
	SessionID     string     `db:"session_id" json:"session_id"`
	CandidateName string     `db:"candidate_name" json:"candidate_name"`
	IsSubmit      bool       `db:"is_submit" json:"is_submit"`
	EventName     *string    `db:"event_name" json:"event_name"`
	StartTime     time.Time  `db:"start_time" json:"start_time"`
	EndTime       *time.Time `db:"end_time" json:"end_time"`
	DurationSec   *int64     `db:"duration_sec" json:"duration_sec"`
}
