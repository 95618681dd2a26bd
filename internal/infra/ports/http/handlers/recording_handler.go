package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/proctorlink/internal/application/constant"
	"github.com/qrave1/proctorlink/internal/domain"
	"github.com/qrave1/proctorlink/internal/infra/ports/http/dto"
	"github.com/qrave1/proctorlink/internal/usecase"
)

type RecordingHandler struct {
	recordingUsecase usecase.RecordingUsecase
}

func NewRecordingHandler(recordingUsecase usecase.RecordingUsecase) *RecordingHandler {
	return &RecordingHandler{recordingUsecase: recordingUsecase}
}

func (h *RecordingHandler) UploadChunk(c echo.Context) error {
	sessionID := c.QueryParam("sessionId")
	candidateName := c.QueryParam("candidate_name")

	seq := c.QueryParam("seq")
	if seq == "" {
		seq = "0"
	}

	n, err := h.recordingUsecase.AppendChunk(c.Request().Context(), candidateName, sessionID, c.Request().Body)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusBadRequest, dto.RecordEventResponse{Error: vErr.Error()})
		}

		slog.Error(
			"append chunk",
			slog.Any(constant.Error, err),
			slog.String(constant.SessionID, sessionID),
			slog.String(constant.Seq, seq),
		)
		return c.JSON(http.StatusInternalServerError, dto.RecordEventResponse{Error: err.Error()})
	}

	slog.Debug(
		"chunk appended",
		slog.String(constant.File, usecase.RecordingFilename(candidateName, sessionID)),
		slog.String(constant.Seq, seq),
		slog.Int64("bytes", n),
	)

	return c.JSON(http.StatusOK, dto.UploadChunkResponse{OK: true, Seq: seq})
}

func (h *RecordingHandler) FinishUpload(c echo.Context) error {
	sessionID := c.QueryParam("sessionId")
	if sessionID == "" {
		sessionID = usecase.UnknownSession
	}

	h.recordingUsecase.FinishUpload(c.Request().Context(), sessionID)

	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

// Video отдаёт запись целиком или по Range через http.ServeContent
func (h *RecordingHandler) Video(c echo.Context) error {
	filename := c.Param("filename")

	rec, err := h.recordingUsecase.Open(filename)
	if err != nil {
		var vErr *domain.ValidationError

		switch {
		case errors.Is(err, domain.ErrNotFound), errors.As(err, &vErr):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "video not found"})
		default:
			slog.Error("open video", slog.Any(constant.Error, err), slog.String(constant.File, filename))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open video"})
		}
	}
	defer rec.File.Close()

	c.Response().Header().Set(echo.HeaderContentType, rec.ContentType)
	http.ServeContent(c.Response(), c.Request(), rec.Name, rec.ModTime, rec.File)

	return nil
}
