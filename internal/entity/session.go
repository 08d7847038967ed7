package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// GameMode decides whether the automated player takes part in a session.
type GameMode string

const (
	ModeHumanVsHuman     GameMode = "pvp"
	ModeHumanVsAutomated GameMode = "pve"
)

func ParseGameMode(s string) (GameMode, error) {
	switch mode := GameMode(s); mode {
	case ModeHumanVsHuman, ModeHumanVsAutomated:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidMode, s)
	}
}

// Score counts wins per mark. Draws are not counted.
type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

func (that *Score) AddWin(mark Mark) {
	switch mark {
	case MarkX:
		that.X++
	case MarkO:
		that.O++
	}
}

func (that Score) Of(mark Mark) int {
	if mark == MarkX {
		return that.X
	}
	return that.O
}

// Session is one sequence of matches between the same two sides.
// Turn and outcome are derived from Board on demand.
type Session struct {
	ID      string
	Board   Board
	Mode    GameMode
	BotMark Mark
	Score   Score
}

func NewSession(id string, mode GameMode, botMark Mark) *Session {
	return &Session{
		ID:      id,
		Board:   NewBoard(),
		Mode:    mode,
		BotMark: botMark,
	}
}

func (that *Session) IsWithBot() bool {
	return that.Mode == ModeHumanVsAutomated
}

// IsBotMark reports whether the automated player owns the given mark.
func (that *Session) IsBotMark(mark Mark) bool {
	return that.IsWithBot() && that.BotMark == mark
}

// ResetBoard starts a new match. The score is kept.
func (that *Session) ResetBoard() {
	that.Board = NewBoard()
}
