package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/qrave1/proctorlink/internal/domain"
	"github.com/qrave1/proctorlink/internal/domain/events"
	"github.com/qrave1/proctorlink/internal/domain/models"
	"github.com/qrave1/proctorlink/internal/infra/adapters/memory"
	"github.com/qrave1/proctorlink/internal/usecase/mocks"
)

type sentMessage struct {
	to      uuid.UUID
	msgType string
	data    json.RawMessage
}

// fakeGateway запоминает всё, что релей попросил доставить
type fakeGateway struct {
	mu   sync.Mutex
	sent []sentMessage
	fail map[uuid.UUID]error
}

func (g *fakeGateway) Send(handle uuid.UUID, msgType string, payload any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err, ok := g.fail[handle]; ok {
		return err
	}

	var data json.RawMessage
	if payload != nil {
		data, _ = json.Marshal(payload)
	}

	g.sent = append(g.sent, sentMessage{to: handle, msgType: msgType, data: data})

	return nil
}

// take возвращает и очищает сообщения указанного типа
func (g *fakeGateway) take(msgType string) []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()

	var matched, rest []sentMessage
	for _, m := range g.sent {
		if m.msgType == msgType {
			matched = append(matched, m)
		} else {
			rest = append(rest, m)
		}
	}
	g.sent = rest

	return matched
}

func (g *fakeGateway) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.sent = nil
}

type relayFixture struct {
	relay   SignalingUsecase
	rooms   memory.RoomRegistry
	gateway *fakeGateway
	ledger  LedgerUsecase
}

func newRelayFixture(t *testing.T) *relayFixture {
	t.Helper()

	gw := &fakeGateway{fail: map[uuid.UUID]error{}}
	rooms := memory.NewRoomRegistry()
	ledger := NewLedgerUsecase(memory.NewDistractionRepository())

	return &relayFixture{
		relay:   NewSignalingUsecase(rooms, memory.NewPeerRepository(), gw, ledger),
		rooms:   rooms,
		gateway: gw,
		ledger:  ledger,
	}
}

func (f *relayFixture) connect(t *testing.T) uuid.UUID {
	t.Helper()

	h := uuid.New()
	f.relay.HandleConnect(context.Background(), h)

	return h
}

func (f *relayFixture) join(t *testing.T, h uuid.UUID, roomID string) {
	t.Helper()

	require.NoError(t, f.relay.HandleJoin(context.Background(), h, events.JoinEvent{RoomID: roomID}))
}

func recipients(msgs []sentMessage) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.to)
	}

	return out
}

func TestRelay_ConnectSendsOwnHandle(t *testing.T) {
	f := newRelayFixture(t)
	h := f.connect(t)

	msgs := f.gateway.take(events.TypeConnected)
	require.Len(t, msgs, 1)
	require.Equal(t, h, msgs[0].to)
	require.JSONEq(t, `{"id":"`+h.String()+`"}`, string(msgs[0].data))
}

func TestRelay_JoinBroadcastsToOthersOnly(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)

	a, b, c := f.connect(t), f.connect(t), f.connect(t)
	f.join(t, a, "alice-s1")
	req.Empty(f.gateway.take(events.TypePeerJoined))

	f.join(t, b, "alice-s1")
	msgs := f.gateway.take(events.TypePeerJoined)
	req.Equal([]uuid.UUID{a}, recipients(msgs))
	req.JSONEq(`{"id":"`+b.String()+`","candidateName":"alice"}`, string(msgs[0].data))

	f.join(t, c, "alice-s1")
	req.ElementsMatch([]uuid.UUID{a, b}, recipients(f.gateway.take(events.TypePeerJoined)))
}

func TestRelay_JoinRecordsLedgerOnce(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.join(t, f.connect(t), "alice-s1")
	}

	rows, err := f.ledger.ListEvents(ctx, "s1")
	req.NoError(err)
	req.Len(rows, 1)
	req.Equal(models.EventJoined, *rows[0].EventName)
	req.Equal("alice", rows[0].CandidateName)
}

func TestRelay_JoinWithoutCandidateSkipsLedger(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)

	f.join(t, f.connect(t), "-s9")

	rows, err := f.ledger.ListJoinedCandidates(context.Background())
	req.NoError(err)
	req.Empty(rows)
	req.Equal(1, f.rooms.Count())
}

func TestRelay_JoinWithoutSessionUsesSentinel(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)

	f.join(t, f.connect(t), "carol")

	rows, err := f.ledger.ListEvents(context.Background(), domain.DefaultSessionID)
	req.NoError(err)
	req.Len(rows, 1)
	req.Equal("carol", rows[0].CandidateName)
}

func TestRelay_JoinStillCompletesWhenLedgerFails(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDistractionRepository(ctrl)
	repo.EXPECT().ExistsBySession(gomock.Any(), "s1").Return(false, errors.New("db is down")).Times(2)

	gw := &fakeGateway{fail: map[uuid.UUID]error{}}
	rooms := memory.NewRoomRegistry()
	relay := NewSignalingUsecase(rooms, memory.NewPeerRepository(), gw, NewLedgerUsecase(repo))

	a, b := uuid.New(), uuid.New()
	relay.HandleConnect(context.Background(), a)
	relay.HandleConnect(context.Background(), b)

	req.NoError(relay.HandleJoin(context.Background(), a, events.JoinEvent{RoomID: "alice-s1"}))
	req.NoError(relay.HandleJoin(context.Background(), b, events.JoinEvent{RoomID: "alice-s1"}))

	req.ElementsMatch([]uuid.UUID{a, b}, rooms.Members("alice-s1"))
	req.Equal([]uuid.UUID{a}, recipients(gw.take(events.TypePeerJoined)))
}

func TestRelay_EmptyRoomIDRejected(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	h := f.connect(t)

	req.NoError(f.relay.HandleJoin(context.Background(), h, events.JoinEvent{}))
	req.Equal(0, f.rooms.Count())
	req.Len(f.gateway.take(events.TypeError), 1)
}

func TestRelay_DirectedSignal(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	a, b, c := f.connect(t), f.connect(t), f.connect(t)
	for _, h := range []uuid.UUID{a, b, c} {
		f.join(t, h, "alice-s1")
	}
	f.gateway.reset()

	payload := json.RawMessage(`{"target":"` + b.String() + `","sdp":"answer"}`)
	req.NoError(f.relay.HandleSignal(ctx, a, events.SignalEvent{RoomID: "alice-s1", Payload: payload}))

	msgs := f.gateway.take(events.TypeSignal)
	req.Equal([]uuid.UUID{b}, recipients(msgs))

	var relayed events.RelayedSignalEvent
	req.NoError(json.Unmarshal(msgs[0].data, &relayed))
	req.Equal(a.String(), relayed.From)
	req.JSONEq(string(payload), string(relayed.Payload))
}

func TestRelay_BroadcastSignal(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	a, b, c := f.connect(t), f.connect(t), f.connect(t)
	for _, h := range []uuid.UUID{a, b, c} {
		f.join(t, h, "alice-s1")
	}
	f.gateway.reset()

	payload := json.RawMessage(`{"sdp":"offer"}`)
	req.NoError(f.relay.HandleSignal(ctx, a, events.SignalEvent{RoomID: "alice-s1", Payload: payload}))

	req.ElementsMatch([]uuid.UUID{b, c}, recipients(f.gateway.take(events.TypeSignal)))
}

func TestRelay_SignalToOutsiderDropped(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	a, b, outsider := f.connect(t), f.connect(t), f.connect(t)
	f.join(t, a, "alice-s1")
	f.join(t, b, "alice-s1")
	f.join(t, outsider, "bob-s2")
	f.gateway.reset()

	for _, target := range []string{outsider.String(), uuid.NewString(), "not-a-uuid"} {
		payload := json.RawMessage(`{"target":"` + target + `"}`)
		req.NoError(f.relay.HandleSignal(ctx, a, events.SignalEvent{Payload: payload}))
	}

	req.Empty(f.gateway.take(events.TypeSignal))
}

func TestRelay_SignalWithNonObjectPayloadBroadcasts(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)

	a, b := f.connect(t), f.connect(t)
	f.join(t, a, "room")
	f.join(t, b, "room")
	f.gateway.reset()

	req.NoError(f.relay.HandleSignal(context.Background(), a, events.SignalEvent{Payload: json.RawMessage(`"opaque"`)}))
	req.Equal([]uuid.UUID{b}, recipients(f.gateway.take(events.TypeSignal)))
}

func TestRelay_MessagesBeforeJoinRejected(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()
	h := f.connect(t)

	req.ErrorIs(f.relay.HandleSignal(ctx, h, events.SignalEvent{}), domain.ErrNotJoined)
	req.ErrorIs(f.relay.HandleRequestOffers(ctx, h, events.RoomEvent{}), domain.ErrNotJoined)
	req.ErrorIs(f.relay.HandleSubmitted(ctx, h, events.RoomEvent{}), domain.ErrNotJoined)

	req.ErrorIs(f.relay.HandleSignal(ctx, uuid.New(), events.SignalEvent{}), domain.ErrConnectionNotFound)
}

func TestRelay_LateJoinerFanOut(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	// given: трое уже в комнате, четвёртый пришёл позже
	existing := []uuid.UUID{f.connect(t), f.connect(t), f.connect(t)}
	for _, h := range existing {
		f.join(t, h, "alice-s1")
	}
	late := f.connect(t)
	f.join(t, late, "alice-s1")
	f.gateway.reset()

	// when
	req.NoError(f.relay.HandleRequestOffers(ctx, late, events.RoomEvent{RoomID: "alice-s1"}))

	// then: каждый существующий участник получает ровно одно приглашение
	msgs := f.gateway.take(events.TypeSendOfferToLateJoiner)
	req.ElementsMatch(existing, recipients(msgs))
	for _, m := range msgs {
		req.JSONEq(`{"newPeerId":"`+late.String()+`"}`, string(m.data))
	}
}

func TestRelay_Submitted(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)

	candidate, observer := f.connect(t), f.connect(t)
	f.join(t, candidate, "alice-s1")
	f.join(t, observer, "alice-s1")
	f.gateway.reset()

	// roomId из сообщения не используется для маршрутизации
	req.NoError(f.relay.HandleSubmitted(context.Background(), candidate, events.RoomEvent{RoomID: "other-room"}))

	msgs := f.gateway.take(events.TypeSubmitted)
	req.Equal([]uuid.UUID{observer}, recipients(msgs))
	req.JSONEq(`{"roomId":"alice-s1"}`, string(msgs[0].data))
}

func TestRelay_DisconnectLifecycle(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	a, b := f.connect(t), f.connect(t)
	f.join(t, a, "alice-s1")
	f.join(t, b, "alice-s1")
	f.gateway.reset()

	f.relay.HandleDisconnect(ctx, a)

	msgs := f.gateway.take(events.TypePeerLeft)
	req.Equal([]uuid.UUID{b}, recipients(msgs))
	req.JSONEq(`{"id":"`+a.String()+`"}`, string(msgs[0].data))
	req.Equal([]uuid.UUID{b}, f.rooms.Members("alice-s1"))

	// повторный disconnect ничего не шлёт
	f.relay.HandleDisconnect(ctx, a)
	req.Empty(f.gateway.take(events.TypePeerLeft))

	// последний участник уходит, комната удаляется и некому слать peer-left
	f.relay.HandleDisconnect(ctx, b)
	req.Empty(f.gateway.take(events.TypePeerLeft))
	req.Equal(0, f.rooms.Count())
	req.Empty(f.rooms.Members("alice-s1"))
}

func TestRelay_DisconnectUnjoined(t *testing.T) {
	f := newRelayFixture(t)
	h := f.connect(t)

	f.relay.HandleDisconnect(context.Background(), h)
	f.relay.HandleDisconnect(context.Background(), uuid.New())

	require.Equal(t, 0, f.rooms.Count())
}

func TestRelay_RejoinMovesRooms(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	a, b, c := f.connect(t), f.connect(t), f.connect(t)
	f.join(t, a, "room-one")
	f.join(t, b, "room-one")
	f.join(t, c, "room-two")
	f.gateway.reset()

	f.join(t, a, "room-two")

	req.Equal([]uuid.UUID{b}, recipients(f.gateway.take(events.TypePeerLeft)))
	req.Equal([]uuid.UUID{c}, recipients(f.gateway.take(events.TypePeerJoined)))
	req.Equal([]uuid.UUID{b}, f.rooms.Members("room-one"))
	req.ElementsMatch([]uuid.UUID{a, c}, f.rooms.Members("room-two"))

	// disconnect уводит только из последней комнаты
	f.relay.HandleDisconnect(ctx, a)
	req.Equal([]uuid.UUID{c}, recipients(f.gateway.take(events.TypePeerLeft)))
	req.Equal([]uuid.UUID{b}, f.rooms.Members("room-one"))
}

func TestRelay_JoinAfterDisconnectRejected(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)
	ctx := context.Background()

	a := f.connect(t)
	f.relay.HandleDisconnect(ctx, a)

	req.ErrorIs(f.relay.HandleJoin(ctx, a, events.JoinEvent{RoomID: "alice-s1"}), domain.ErrConnectionNotFound)
	req.Equal(0, f.rooms.Count())
}

func TestRelay_DeliveryFailureDoesNotAffectOthers(t *testing.T) {
	req := require.New(t)
	f := newRelayFixture(t)

	a, b, c := f.connect(t), f.connect(t), f.connect(t)
	for _, h := range []uuid.UUID{a, b, c} {
		f.join(t, h, "room")
	}
	f.gateway.reset()
	f.gateway.fail[b] = domain.ErrBackpressure

	req.NoError(f.relay.HandleSignal(context.Background(), a, events.SignalEvent{Payload: json.RawMessage(`{}`)}))
	req.Equal([]uuid.UUID{c}, recipients(f.gateway.take(events.TypeSignal)))
}

func TestRelay_Ping(t *testing.T) {
	f := newRelayFixture(t)
	h := f.connect(t)

	f.relay.HandlePing(context.Background(), h)

	require.Equal(t, []uuid.UUID{h}, recipients(f.gateway.take(events.TypePong)))
}
