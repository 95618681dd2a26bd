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

type EventHandler struct {
	ledgerUsecase usecase.LedgerUsecase
}

func NewEventHandler(ledgerUsecase usecase.LedgerUsecase) *EventHandler {
	return &EventHandler{ledgerUsecase: ledgerUsecase}
}

func (h *EventHandler) RecordEvent(c echo.Context) error {
	var req dto.RecordEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.RecordEventResponse{Error: "invalid request"})
	}

	id, err := h.ledgerUsecase.RecordEvent(c.Request().Context(), req.ToInput())
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			slog.Warn("record event rejected", slog.Any(constant.Error, err))
			return c.JSON(http.StatusBadRequest, dto.RecordEventResponse{Error: "missing fields"})
		}

		slog.Error(
			"record event",
			slog.Any(constant.Error, err),
			slog.String(constant.SessionID, req.SessionID),
		)
		return c.JSON(http.StatusInternalServerError, dto.RecordEventResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.RecordEventResponse{OK: true, ID: id})
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	sessionID := c.Param("session_id")

	rows, err := h.ledgerUsecase.ListEvents(c.Request().Context(), sessionID)
	if err != nil {
		slog.Error("list events", slog.Any(constant.Error, err), slog.String(constant.SessionID, sessionID))
		return c.JSON(http.StatusInternalServerError, dto.RecordEventResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.ListEventsResponse{OK: true, Rows: rows})
}

func (h *EventHandler) MarkSubmitted(c echo.Context) error {
	sessionID := c.Param("session_id")

	_, err := h.ledgerUsecase.MarkSubmitted(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Session not found"})
		}

		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "sessionId is required"})
		}

		slog.Error("mark submitted", slog.Any(constant.Error, err), slog.String(constant.SessionID, sessionID))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Database error"})
	}

	return c.JSON(http.StatusOK, dto.SubmittedResponse{
		Message:   "Submission updated successfully",
		SessionID: sessionID,
	})
}

func (h *EventHandler) ListCandidates(c echo.Context) error {
	rows, err := h.ledgerUsecase.ListJoinedCandidates(c.Request().Context())
	if err != nil {
		slog.Error("list candidates", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, dto.RecordEventResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, dto.ListEventsResponse{OK: true, Rows: rows})
}
