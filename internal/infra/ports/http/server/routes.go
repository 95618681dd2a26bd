package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/qrave1/proctorlink/internal/application/config"
	"github.com/qrave1/proctorlink/internal/infra/ports/http/handlers"
	"github.com/qrave1/proctorlink/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	eventHandler *handlers.EventHandler,
	recordingHandler *handlers.RecordingHandler,
	iceHandler *handlers.IceHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "working...")
	})

	e.GET("/ws", wsHandler.Handle)

	api := e.Group("/api")
	{
		api.POST("/events", eventHandler.RecordEvent)
		api.GET("/events/:session_id", eventHandler.ListEvents)
		api.GET("/submitted/:session_id", eventHandler.MarkSubmitted)
		api.GET("/candidates", eventHandler.ListCandidates)

		api.GET("/ice", iceHandler.IceServers)
	}

	upload := e.Group("/upload")
	{
		upload.POST("/chunk", recordingHandler.UploadChunk, echomw.BodyLimit(cfg.Upload.MaxChunk))
		upload.POST("/finish", recordingHandler.FinishUpload)
	}

	e.GET("/video/:filename", recordingHandler.Video)

	e.Static("/static", cfg.Upload.Dir)

	return e
}
