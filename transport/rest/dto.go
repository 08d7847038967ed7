package rest

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	stateAwaitingMove = "awaiting_move"
	stateFinished     = "finished"
)

type createSessionRequest struct {
	Mode entity.GameMode `json:"mode"`
}

type moveRequest struct {
	Mark entity.Mark `json:"mark"`
	Cell *int        `json:"cell"`
}

type switchModeRequest struct {
	Mode entity.GameMode `json:"mode"`
}

type bestMoveRequest struct {
	Board []entity.Cell `json:"board"`
	Mark  entity.Mark   `json:"mark,omitempty"`
}

type bestMoveResponse struct {
	Cell  int `json:"cell"`
	Score int `json:"score"`
}

type outcomeView struct {
	Result entity.Result `json:"result"`
	Winner entity.Mark   `json:"winner,omitempty"`
	Line   []int         `json:"line,omitempty"`
}

type sessionView struct {
	ID         string          `json:"id"`
	Board      entity.Board    `json:"board"`
	Mode       entity.GameMode `json:"mode"`
	BotMark    entity.Mark     `json:"botMark,omitempty"`
	State      string          `json:"state"`
	Turn       entity.Mark     `json:"turn,omitempty"`
	Outcome    *outcomeView    `json:"outcome,omitempty"`
	Score      entity.Score    `json:"score"`
	LegalMoves []int           `json:"legalMoves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newSessionView(snapshot *usecase.Snapshot) sessionView {
	view := sessionView{
		ID:         snapshot.Session.ID,
		Board:      snapshot.Session.Board,
		Mode:       snapshot.Session.Mode,
		State:      stateAwaitingMove,
		Turn:       snapshot.Turn,
		Score:      snapshot.Session.Score,
		LegalMoves: snapshot.LegalMoves,
	}

	if snapshot.Session.IsWithBot() {
		view.BotMark = snapshot.Session.BotMark
	}

	if view.LegalMoves == nil {
		view.LegalMoves = []int{}
	}

	if snapshot.IsFinished() {
		view.State = stateFinished
		view.Outcome = &outcomeView{Result: snapshot.Outcome.Result}

		if snapshot.Outcome.Result == entity.Win {
			view.Outcome.Winner = snapshot.Outcome.Winner
			view.Outcome.Line = snapshot.Outcome.Line[:]
		}
	}

	return view
}
