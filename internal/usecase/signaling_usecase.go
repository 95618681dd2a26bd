package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/qrave1/proctorlink/internal/application/constant"
	"github.com/qrave1/proctorlink/internal/application/metric"
	"github.com/qrave1/proctorlink/internal/domain"
	"github.com/qrave1/proctorlink/internal/domain/events"
	"github.com/qrave1/proctorlink/internal/infra/adapters/memory"
)

// Gateway доставляет сообщения в соединения. Send не ждёт получателя.
type Gateway interface {
	Send(handle uuid.UUID, msgType string, payload any) error
}

type SignalingUsecase interface {
	HandleConnect(ctx context.Context, handle uuid.UUID)
	HandleDisconnect(ctx context.Context, handle uuid.UUID)

	HandleJoin(ctx context.Context, handle uuid.UUID, event events.JoinEvent) error
	HandleSignal(ctx context.Context, handle uuid.UUID, event events.SignalEvent) error
	HandleRequestOffers(ctx context.Context, handle uuid.UUID, event events.RoomEvent) error
	HandleSubmitted(ctx context.Context, handle uuid.UUID, event events.RoomEvent) error

	HandlePing(ctx context.Context, handle uuid.UUID)
}

type signalingUsecase struct {
	rooms   memory.RoomRegistry
	peers   memory.PeerRepository
	gateway Gateway

	ledger LedgerUsecase
}

func NewSignalingUsecase(
	rooms memory.RoomRegistry,
	peers memory.PeerRepository,
	gateway Gateway,
	ledger LedgerUsecase,
) SignalingUsecase {
	return &signalingUsecase{
		rooms:   rooms,
		peers:   peers,
		gateway: gateway,
		ledger:  ledger,
	}
}

func (s *signalingUsecase) HandleConnect(_ context.Context, handle uuid.UUID) {
	s.peers.Add(domain.NewPeer(handle))

	s.send(handle, events.TypeConnected, events.ConnectedEvent{ID: handle.String()})
}

func (s *signalingUsecase) HandleJoin(ctx context.Context, handle uuid.UUID, event events.JoinEvent) error {
	if event.RoomID == "" {
		s.send(handle, events.TypeError, events.ErrorEvent{Message: "roomId is required"})
		return nil
	}

	peer, ok := s.peers.Get(handle)
	if !ok {
		return domain.ErrConnectionNotFound
	}

	ref := domain.ParseRoomID(event.RoomID)

	previous, ok := peer.Join(event.RoomID, ref.CandidateName)
	if !ok {
		slog.Debug("join after disconnect ignored", slog.Any(constant.Handle, handle))
		return nil
	}

	if previous != "" && previous != event.RoomID {
		s.leaveRoom(previous, handle)
	}

	count := s.rooms.Join(event.RoomID, handle)

	slog.Info(
		"peer joined room",
		slog.Any(constant.Handle, handle),
		slog.String(constant.RoomID, event.RoomID),
		slog.Int(constant.Count, count),
	)

	if ref.CandidateName != "" {
		// ошибка журнала не мешает входу в комнату
		if _, err := s.ledger.RecordJoin(ctx, ref.SessionID, ref.CandidateName); err != nil {
			slog.Error(
				"record join",
				slog.Any(constant.Error, err),
				slog.String(constant.SessionID, ref.SessionID),
				slog.String(constant.CandidateName, ref.CandidateName),
			)
		}
	}

	s.broadcast(event.RoomID, handle, events.TypePeerJoined, events.PeerJoinedEvent{
		ID:            handle.String(),
		CandidateName: ref.CandidateName,
	})

	return nil
}

func (s *signalingUsecase) HandleSignal(_ context.Context, handle uuid.UUID, event events.SignalEvent) error {
	roomID, err := s.joinedRoom(handle, event.RoomID)
	if err != nil {
		return err
	}

	metric.IncrementSignalingMessages(events.TypeSignal)

	relayed := events.RelayedSignalEvent{
		From:    handle.String(),
		Payload: event.Payload,
	}

	var target events.SignalTarget

	// payload не обязан быть объектом, тогда адресата нет
	if len(event.Payload) > 0 {
		_ = json.Unmarshal(event.Payload, &target)
	}

	if target.Target == "" {
		s.broadcast(roomID, handle, events.TypeSignal, relayed)
		return nil
	}

	targetHandle, err := uuid.Parse(target.Target)
	if err != nil || !lo.Contains(s.rooms.Members(roomID), targetHandle) {
		slog.Warn(
			"signal target is not in the room, dropped",
			slog.Any(constant.Handle, handle),
			slog.String(constant.RoomID, roomID),
			slog.String("target", target.Target),
		)
		return nil
	}

	s.send(targetHandle, events.TypeSignal, relayed)

	return nil
}

func (s *signalingUsecase) HandleRequestOffers(_ context.Context, handle uuid.UUID, event events.RoomEvent) error {
	roomID, err := s.joinedRoom(handle, event.RoomID)
	if err != nil {
		return err
	}

	metric.IncrementSignalingMessages(events.TypeRequestOffers)

	s.broadcast(roomID, handle, events.TypeSendOfferToLateJoiner, events.LateJoinerEvent{
		NewPeerID: handle.String(),
	})

	return nil
}

func (s *signalingUsecase) HandleSubmitted(_ context.Context, handle uuid.UUID, event events.RoomEvent) error {
	roomID, err := s.joinedRoom(handle, event.RoomID)
	if err != nil {
		return err
	}

	metric.IncrementSignalingMessages(events.TypeSubmitted)

	s.broadcast(roomID, handle, events.TypeSubmitted, events.SubmittedEvent{RoomID: roomID})

	return nil
}

// HandleDisconnect можно вызывать повторно, второй вызов ничего не делает
func (s *signalingUsecase) HandleDisconnect(_ context.Context, handle uuid.UUID) {
	peer, ok := s.peers.Get(handle)
	if !ok {
		return
	}

	roomID, wasJoined, closed := peer.Close()
	s.peers.Remove(handle)

	if !closed || !wasJoined {
		return
	}

	s.leaveRoom(roomID, handle)
}

func (s *signalingUsecase) HandlePing(_ context.Context, handle uuid.UUID) {
	s.send(handle, events.TypePong, nil)
}

// joinedRoom возвращает комнату соединения. roomId из сообщения только сверяется.
func (s *signalingUsecase) joinedRoom(handle uuid.UUID, claimed string) (string, error) {
	peer, ok := s.peers.Get(handle)
	if !ok {
		return "", domain.ErrConnectionNotFound
	}

	roomID, joined := peer.Room()
	if !joined {
		return "", domain.ErrNotJoined
	}

	if claimed != "" && claimed != roomID {
		slog.Warn(
			"message roomId differs from joined room",
			slog.Any(constant.Handle, handle),
			slog.String(constant.RoomID, roomID),
			slog.String("claimed_room_id", claimed),
		)
	}

	return roomID, nil
}

func (s *signalingUsecase) leaveRoom(roomID string, handle uuid.UUID) {
	s.rooms.Leave(roomID, handle)

	slog.Info(
		"peer left room",
		slog.Any(constant.Handle, handle),
		slog.String(constant.RoomID, roomID),
	)

	s.broadcast(roomID, handle, events.TypePeerLeft, events.PeerLeftEvent{ID: handle.String()})
}

// broadcast рассылает по снимку участников всем, кроме except
func (s *signalingUsecase) broadcast(roomID string, except uuid.UUID, msgType string, payload any) {
	for _, member := range lo.Without(s.rooms.Members(roomID), except) {
		s.send(member, msgType, payload)
	}
}

func (s *signalingUsecase) send(handle uuid.UUID, msgType string, payload any) {
	if err := s.gateway.Send(handle, msgType, payload); err != nil {
		slog.Warn(
			fmt.Sprintf("deliver %s", msgType),
			slog.Any(constant.Error, err),
			slog.Any(constant.Handle, handle),
			slog.String(constant.Type, msgType),
		)
	}
}
