package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRoomID(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want RoomRef
	}{
		{"candidate and session", "alice-s1", RoomRef{CandidateName: "alice", SessionID: "s1"}},
		{"session keeps its own dashes", "bob-123e4567-e89b-12d3", RoomRef{CandidateName: "bob", SessionID: "123e4567-e89b-12d3"}},
		{"no delimiter", "carol", RoomRef{CandidateName: "carol", SessionID: DefaultSessionID}},
		{"trailing delimiter", "dave-", RoomRef{CandidateName: "dave", SessionID: DefaultSessionID}},
		{"leading delimiter", "-s9", RoomRef{CandidateName: "", SessionID: "s9"}},
		{"empty", "", RoomRef{CandidateName: "", SessionID: DefaultSessionID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ParseRoomID(tc.raw))
		})
	}
}
