package constant

// slog attribute keys
const (
	Error         = "error"
	Handle        = "handle"
	RoomID        = "room_id"
	SessionID     = "session_id"
	CandidateName = "candidate_name"
	Type          = "type"
	Count         = "count"
	File          = "file"
	Seq           = "seq"
)
