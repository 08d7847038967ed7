package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const maxBodyBytes = 1 << 12

var errBadRequest = errors.New("invalid request body")

type sessionController interface {
	CreateSession(ctx context.Context, mode entity.GameMode) (*usecase.Snapshot, error)
	GetSession(ctx context.Context, id string) (*usecase.Snapshot, error)
	MakeTurn(ctx context.Context, id string, mark entity.Mark, cell int) (*usecase.Snapshot, error)
	Reset(ctx context.Context, id string) (*usecase.Snapshot, error)
	SwitchMode(ctx context.Context, id string, mode entity.GameMode) (*usecase.Snapshot, error)
	DeleteSession(ctx context.Context, id string) error
	Analyze(ctx context.Context, board entity.Board, mark entity.Mark) (minimax.Result, error)
}

type Handlers interface {
	CreateSession(w http.ResponseWriter, r *http.Request)
	GetSession(w http.ResponseWriter, r *http.Request)
	DeleteSession(w http.ResponseWriter, r *http.Request)
	MakeMove(w http.ResponseWriter, r *http.Request)
	ResetSession(w http.ResponseWriter, r *http.Request)
	SwitchMode(w http.ResponseWriter, r *http.Request)
	BestMove(w http.ResponseWriter, r *http.Request)
}

type handlers struct {
	logger     *slog.Logger
	controller sessionController
}

func NewHandlers(logger *slog.Logger, controller sessionController) Handlers {
	return &handlers{
		logger:     logger.With("component", "rest"),
		controller: controller,
	}
}

// CreateSession starts a session. An empty body means human vs human.
func (that *handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		that.writeError(w, r, err)
		return
	}

	if req.Mode == "" {
		req.Mode = entity.ModeHumanVsHuman
	}

	snapshot, err := that.controller.CreateSession(r.Context(), req.Mode)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/sessions/"+snapshot.Session.ID)
	that.writeJSON(w, http.StatusCreated, newSessionView(snapshot))
}

func (that *handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.controller.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newSessionView(snapshot))
}

func (that *handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.controller.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if req.Cell == nil {
		that.writeError(w, r, fmt.Errorf("%w: cell is required", errBadRequest))
		return
	}

	snapshot, err := that.controller.MakeTurn(r.Context(), chi.URLParam(r, "id"), req.Mark, *req.Cell)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newSessionView(snapshot))
}

func (that *handlers) ResetSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.controller.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newSessionView(snapshot))
}

func (that *handlers) SwitchMode(w http.ResponseWriter, r *http.Request) {
	var req switchModeRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	snapshot, err := that.controller.SwitchMode(r.Context(), chi.URLParam(r, "id"), req.Mode)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, newSessionView(snapshot))
}

// BestMove analyses an arbitrary board without touching any session.
func (that *handlers) BestMove(w http.ResponseWriter, r *http.Request) {
	var req bestMoveRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if len(req.Board) != entity.BoardSize {
		that.writeError(w, r, fmt.Errorf("%w: board needs %d cells, got %d", apperror.ErrInvalidBoard, entity.BoardSize, len(req.Board)))
		return
	}

	var board entity.Board
	copy(board[:], req.Board)

	result, err := that.controller.Analyze(r.Context(), board, req.Mark)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, bestMoveResponse{Cell: result.Cell, Score: result.Score})
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return nil
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	log := that.logger.With("method", r.Method, "path", r.URL.Path, "status", status)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Debug("request rejected", "error", err)
	}

	message := err.Error()
	if errors.Is(err, io.EOF) {
		message = errBadRequest.Error()
	}

	that.writeJSON(w, status, errorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, io.EOF),
		errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidMark),
		errors.Is(err, apperror.ErrInvalidMode),
		errors.Is(err, apperror.ErrInvalidBoard):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrIllegalMove),
		errors.Is(err, apperror.ErrGameFinished),
		errors.Is(err, apperror.ErrNoLegalMove):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
