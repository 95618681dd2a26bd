package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pion/webrtc/v4"

	"github.com/qrave1/proctorlink/internal/application/config"
)

type IceHandler struct {
	cfg config.ICEConfig
	now func() time.Time
}

func NewIceHandler(cfg config.ICEConfig) *IceHandler {
	return &IceHandler{cfg: cfg, now: time.Now}
}

type IceServersResponse struct {
	ICEServers []webrtc.ICEServer `json:"ice_servers"`
}

// Handler для выдачи ICE серверов. Сам сервис ICE не делает, только подсказывает браузерам адреса.
func (h *IceHandler) IceServers(c echo.Context) error {
	servers := make([]webrtc.ICEServer, 0, 2)

	if len(h.cfg.STUNURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: h.cfg.STUNURLs})
	}

	if h.cfg.TurnEnabled() {
		username := strconv.FormatInt(h.now().Add(h.cfg.TurnTTL).Unix(), 10)

		// Создаём HMAC-SHA1 с использованием static-auth-secret
		mac := hmac.New(sha1.New, []byte(h.cfg.TurnSecret))
		mac.Write([]byte(username))
		password := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		servers = append(servers, webrtc.ICEServer{
			URLs: []string{
				"turn:" + h.cfg.TurnHost + "?transport=udp",
				"turn:" + h.cfg.TurnHost + "?transport=tcp",
			},
			Username:   username,
			Credential: password,
		})
	}

	return c.JSON(http.StatusOK, IceServersResponse{ICEServers: servers})
}
