package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/qrave1/proctorlink/internal/application/config"
	"github.com/qrave1/proctorlink/internal/application/constant"
	"github.com/qrave1/proctorlink/internal/application/metric"
	"github.com/qrave1/proctorlink/internal/domain"
	"github.com/qrave1/proctorlink/internal/domain/events"
)

// WebsocketConnectionRepository интерфейс для работы с активными сессиями в памяти.
// В сокет пишет только write pump соединения, Send лишь кладёт сообщение в очередь.
type WebsocketConnectionRepository interface {
	Add(uuid.UUID, *websocket.Conn)
	Remove(uuid.UUID)

	// Send never blocks: it returns domain.ErrBackpressure when the queue is full
	// and domain.ErrConnectionNotFound for an unknown or removed handle.
	Send(handle uuid.UUID, msgType string, payload any) error
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func (c *wsClient) stop() {
	c.closeOnce.Do(func() { close(c.done) })
}

type wsConnectionRepository struct {
	// wsConns хранит map[handle]*wsClient
	wsConns map[uuid.UUID]*wsClient
	mu      sync.RWMutex

	sendBuffer int
	pingPeriod time.Duration
	writeWait  time.Duration
}

func NewWSConnectionRepository(cfg config.SignalingConfig) WebsocketConnectionRepository {
	return &wsConnectionRepository{
		wsConns:    make(map[uuid.UUID]*wsClient, 10),
		sendBuffer: cfg.SendBuffer,
		pingPeriod: cfg.PingPeriod,
		writeWait:  cfg.WriteWait,
	}
}

func (w *wsConnectionRepository) Add(handle uuid.UUID, conn *websocket.Conn) {
	client := &wsClient{
		conn: conn,
		send: make(chan []byte, w.sendBuffer),
		done: make(chan struct{}),
	}

	w.mu.Lock()
	old, exists := w.wsConns[handle]
	w.wsConns[handle] = client
	w.mu.Unlock()

	if exists {
		old.stop()
	} else {
		// Увеличиваем счетчик активных WS соединений
		metric.IncrementWSActiveConnections()
	}

	go w.writePump(handle, client)
}

func (w *wsConnectionRepository) Remove(handle uuid.UUID) {
	w.mu.Lock()
	client, exists := w.wsConns[handle]
	if exists {
		delete(w.wsConns, handle)
	}
	w.mu.Unlock()

	if !exists {
		return
	}

	client.stop()

	// Уменьшаем счетчик активных WS соединений
	metric.DecrementWSActiveConnections()
}

func (w *wsConnectionRepository) Send(handle uuid.UUID, msgType string, payload any) error {
	client, ok := w.getClient(handle)
	if !ok {
		return domain.ErrConnectionNotFound
	}

	msg := events.Message{Type: msgType}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", msgType, err)
		}

		msg.Data = data
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", msgType, err)
	}

	select {
	case <-client.done:
		return domain.ErrConnectionNotFound
	default:
	}

	select {
	case client.send <- raw:
		return nil
	default:
		metric.IncrementWSDroppedMessages("backpressure")
		return domain.ErrBackpressure
	}
}

func (w *wsConnectionRepository) getClient(handle uuid.UUID) (*wsClient, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	client, ok := w.wsConns[handle]
	return client, ok
}

// writePump единственный писатель в сокет: сообщения из очереди и ping.
// Ошибка записи закрывает соединение, read loop обработчика увидит это и сделает disconnect.
func (w *wsConnectionRepository) writePump(handle uuid.UUID, client *wsClient) {
	ticker := time.NewTicker(w.pingPeriod)

	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case <-client.done:
			_ = client.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(w.writeWait),
			)
			return

		case raw := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(w.writeWait))

			if err := client.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				slog.Error(
					"write to websocket",
					slog.Any(constant.Error, err),
					slog.Any(constant.Handle, handle),
				)
				return
			}

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(w.writeWait))

			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug(
					"ping websocket",
					slog.Any(constant.Error, err),
					slog.Any(constant.Handle, handle),
				)
				return
			}
		}
	}
}
