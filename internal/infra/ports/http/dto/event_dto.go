package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/qrave1/proctorlink/internal/domain/input"
	"github.com/qrave1/proctorlink/internal/domain/models"
)

// Timestamp принимает epoch в миллисекундах (числом или строкой) или RFC 3339
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		return t.parseString(strings.TrimSpace(s))
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}

	t.Time = time.UnixMilli(int64(ms)).UTC()

	return nil
}

func (t *Timestamp) parseString(s string) error {
	if s == "" {
		return nil
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("timestamp %q: expected epoch milliseconds or RFC 3339", s)
	}

	t.Time = parsed

	return nil
}

func (t *Timestamp) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}

	return lo.ToPtr(t.Time)
}

// Seconds - длительность в секундах, дробная часть округляется
type Seconds struct {
	Value int64
	Set   bool
}

func (s *Seconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}

		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("duration %q: expected a number of seconds", raw)
	}

	s.Value = int64(math.Round(f))
	s.Set = true

	return nil
}

type RecordEventRequest struct {
	SessionID     string     `json:"sessionId"`
	CandidateName string     `json:"candidateName"`
	EventName     *string    `json:"eventName"`
	StartTime     *Timestamp `json:"startTime"`
	EndTime       *Timestamp `json:"endTime"`
	Duration      *Seconds   `json:"duration"`
}

func (r *RecordEventRequest) ToInput() input.RecordEventInput {
	in := input.RecordEventInput{
		SessionID:     r.SessionID,
		CandidateName: r.CandidateName,
		EventName:     r.EventName,
		StartTime:     r.StartTime.ptr(),
		EndTime:       r.EndTime.ptr(),
	}

	if r.Duration != nil && r.Duration.Set {
		in.DurationSec = lo.ToPtr(r.Duration.Value)
	}

	return in
}

type RecordEventResponse struct {
	OK    bool   `json:"ok"`
	ID    int64  `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type ListEventsResponse struct {
	OK   bool                       `json:"ok"`
	Rows []*models.DistractionEvent `json:"rows"`
}

type SubmittedResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type UploadChunkResponse struct {
	OK  bool   `json:"ok"`
	Seq string `json:"seq"`
}
