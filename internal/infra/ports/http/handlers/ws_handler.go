package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/qrave1/proctorlink/internal/application/config"
	"github.com/qrave1/proctorlink/internal/application/constant"
	"github.com/qrave1/proctorlink/internal/domain"
	"github.com/qrave1/proctorlink/internal/domain/events"
	"github.com/qrave1/proctorlink/internal/infra/adapters/memory"
	"github.com/qrave1/proctorlink/internal/infra/appctx"
	"github.com/qrave1/proctorlink/internal/usecase"
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	signalingUsecase usecase.SignalingUsecase

	wsConnRepo memory.WebsocketConnectionRepository

	pongWait  time.Duration
	readLimit int64
}

func NewWebSocketHandler(
	cfg *config.Config,
	signalingUsecase usecase.SignalingUsecase,
	wsConnRepo memory.WebsocketConnectionRepository,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if cfg.Debug || lo.Contains(cfg.AllowedOrigins, "*") {
					return true
				}

				origin := r.Header.Get("Origin")

				return origin == cfg.Domain || lo.Contains(cfg.AllowedOrigins, origin)
			},
		},
		signalingUsecase: signalingUsecase,
		wsConnRepo:       wsConnRepo,
		pongWait:         cfg.Signaling.PongWait,
		readLimit:        cfg.Signaling.ReadLimit,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return nil
	}
	defer ws.Close()

	handle := uuid.New()
	ctx := appctx.WithHandle(c.Request().Context(), handle)

	ws.SetReadLimit(h.readLimit)

	if err = ws.SetReadDeadline(time.Now().Add(h.pongWait)); err != nil {
		return nil
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(h.pongWait))
	})

	// ping шлёт write pump репозитория, здесь только чтение
	h.wsConnRepo.Add(handle, ws)
	defer h.wsConnRepo.Remove(handle)

	h.signalingUsecase.HandleConnect(ctx, handle)
	defer h.signalingUsecase.HandleDisconnect(ctx, handle)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			h.handleWebsocketError(ctx, err)
			return nil
		}

		// любое входящее сообщение тоже продлевает дедлайн
		_ = ws.SetReadDeadline(time.Now().Add(h.pongWait))

		signalMessage := new(events.Message)

		if err = json.Unmarshal(msg, signalMessage); err != nil {
			slog.Warn("unmarshal websocket message", slog.Any(constant.Error, err), slog.Any(constant.Handle, handle))
			h.replyError(handle, "malformed message")
			continue
		}

		if err = h.handleMessage(ctx, signalMessage); err != nil {
			slog.Warn(
				"handle message",
				slog.Any(constant.Error, err),
				slog.Any(constant.Handle, handle),
				slog.String(constant.Type, signalMessage.Type),
			)

			if errors.Is(err, domain.ErrNotJoined) {
				h.replyError(handle, "join a room first")
			}
		}
	}
}

func (h *WebSocketHandler) handleMessage(
	ctx context.Context,
	msg *events.Message,
) error {
	handle, ok := appctx.Handle(ctx)
	if !ok {
		return fmt.Errorf("get handle from context")
	}

	switch msg.Type {
	case events.TypeJoin:
		var joinEvent events.JoinEvent

		if err := unmarshalData(msg.Data, &joinEvent); err != nil {
			return fmt.Errorf("unmarshal join event: %w", err)
		}

		if err := h.signalingUsecase.HandleJoin(ctx, handle, joinEvent); err != nil {
			return fmt.Errorf("handle join: %w", err)
		}

	case events.TypeSignal:
		var signalEvent events.SignalEvent

		if err := unmarshalData(msg.Data, &signalEvent); err != nil {
			return fmt.Errorf("unmarshal signal: %w", err)
		}

		if err := h.signalingUsecase.HandleSignal(ctx, handle, signalEvent); err != nil {
			return fmt.Errorf("handle signal: %w", err)
		}

	case events.TypeRequestOffers:
		var roomEvent events.RoomEvent

		if err := unmarshalData(msg.Data, &roomEvent); err != nil {
			return fmt.Errorf("unmarshal request-offers: %w", err)
		}

		if err := h.signalingUsecase.HandleRequestOffers(ctx, handle, roomEvent); err != nil {
			return fmt.Errorf("handle request-offers: %w", err)
		}

	case events.TypeSubmitted:
		var roomEvent events.RoomEvent

		if err := unmarshalData(msg.Data, &roomEvent); err != nil {
			return fmt.Errorf("unmarshal submitted: %w", err)
		}

		if err := h.signalingUsecase.HandleSubmitted(ctx, handle, roomEvent); err != nil {
			return fmt.Errorf("handle submitted: %w", err)
		}

	case events.TypePing:
		h.signalingUsecase.HandlePing(ctx, handle)

	default:
		h.replyError(handle, "unknown message type")
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	return nil
}

// unmarshalData: у request-offers и submitted data может не быть
func unmarshalData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}

	return json.Unmarshal(data, v)
}

func (h *WebSocketHandler) replyError(handle uuid.UUID, message string) {
	if err := h.wsConnRepo.Send(handle, events.TypeError, events.ErrorEvent{Message: message}); err != nil {
		slog.Debug("reply error", slog.Any(constant.Error, err), slog.Any(constant.Handle, handle))
	}
}

func (h *WebSocketHandler) handleWebsocketError(ctx context.Context, err error) {
	handle, ok := appctx.Handle(ctx)
	if !ok {
		handle = uuid.Nil
	}

	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived:
			slog.Info("peer disconnected from websocket", slog.Any(constant.Handle, handle))
		default:
			slog.Warn("websocket close error", slog.Any(constant.Error, err), slog.Any(constant.Handle, handle))
		}
	} else {
		slog.Info(
			"websocket read",
			slog.Any(constant.Error, err),
			slog.Any(constant.Handle, handle),
		)
	}
}
