package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	ChooseCell(ctx context.Context, board entity.Board, mark entity.Mark) (int, error)
}

// Snapshot is a session together with the match state derived from its board.
// Turn is zero once the match is finished.
type Snapshot struct {
	Session    entity.Session
	Outcome    entity.Outcome
	Turn       entity.Mark
	LegalMoves []int
}

func (that *Snapshot) IsFinished() bool {
	return that.Outcome.IsTerminal()
}

func newSnapshot(session *entity.Session) *Snapshot {
	snapshot := &Snapshot{
		Session: *session,
		Outcome: tictactoe.Evaluate(session.Board),
	}

	if !snapshot.IsFinished() {
		snapshot.Turn = tictactoe.NextTurn(session.Board)
		snapshot.LegalMoves = tictactoe.LegalMoves(session.Board)
	}

	return snapshot
}

// SessionController runs matches: it alternates turns, lets the bot answer in
// pve sessions and keeps the score. Calls are serialised so a bot reply always
// lands before the next human move is looked at.
type SessionController struct {
	logger *slog.Logger

	mu          sync.Mutex
	sessionRepo sessionRepo
	bot         botService
	botMark     entity.Mark
}

func NewSessionController(logger *slog.Logger, sessionRepo sessionRepo, bot botService, botMark entity.Mark) *SessionController {
	return &SessionController{
		logger: logger.With("component", "session"),

		sessionRepo: sessionRepo,
		bot:         bot,
		botMark:     botMark,
	}
}

// CreateSession starts a session with an empty board. In pve sessions where
// the bot holds X, the bot's opening move is already on the board.
func (that *SessionController) CreateSession(ctx context.Context, mode entity.GameMode) (*Snapshot, error) {
	if _, err := entity.ParseGameMode(string(mode)); err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	session := entity.NewSession(pkg.GenerateSessionID(), mode, that.botMark)

	if err := that.openingMove(ctx, session); err != nil {
		return nil, err
	}

	if err := that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	that.logger.Info("session created", "sessionID", session.ID, "mode", mode)

	return newSnapshot(session), nil
}

func (that *SessionController) GetSession(ctx context.Context, id string) (*Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return newSnapshot(session), nil
}

// MakeTurn plays mark on cell for a human and, in pve sessions, the bot's reply.
func (that *SessionController) MakeTurn(ctx context.Context, id string, mark entity.Mark, cell int) (*Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "MakeTurn", "sessionID", id)

	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if tictactoe.Evaluate(session.Board).IsTerminal() {
		return newSnapshot(session), apperror.ErrGameFinished
	}

	if session.IsBotMark(mark) {
		return newSnapshot(session), fmt.Errorf("%w: %s belongs to the bot", apperror.ErrNotYourTurn, mark)
	}

	if err = that.play(session, mark, cell); err != nil {
		return newSnapshot(session), fmt.Errorf("failed make turn: %w", err)
	}

	log.Debug("player made a turn", "mark", mark.String(), "cell", cell)

	if session.IsWithBot() && !tictactoe.Evaluate(session.Board).IsTerminal() {
		if err = that.botTurn(ctx, session); err != nil {
			return nil, err
		}
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	return newSnapshot(session), nil
}

// Reset clears the board for a new match and keeps the score.
func (that *SessionController) Reset(ctx context.Context, id string) (*Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = that.reset(ctx, session); err != nil {
		return nil, err
	}

	return newSnapshot(session), nil
}

// SwitchMode changes the mode and resets the board. Switching to the current
// mode changes nothing.
func (that *SessionController) SwitchMode(ctx context.Context, id string, mode entity.GameMode) (*Snapshot, error) {
	if _, err := entity.ParseGameMode(string(mode)); err != nil {
		return nil, err
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if session.Mode == mode {
		return newSnapshot(session), nil
	}

	session.Mode = mode
	if err = that.reset(ctx, session); err != nil {
		return nil, err
	}

	that.logger.Info("session mode switched", "sessionID", id, "mode", mode)

	return newSnapshot(session), nil
}

func (that *SessionController) DeleteSession(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session deleted", "sessionID", id)

	return nil
}

// Analyze returns the best move for the side to move on an arbitrary board
// without touching any session. A zero mark means whoever is to move.
func (that *SessionController) Analyze(_ context.Context, board entity.Board, mark entity.Mark) (minimax.Result, error) {
	if err := tictactoe.ValidateBoard(board); err != nil {
		return minimax.Result{}, err
	}

	if tictactoe.Evaluate(board).IsTerminal() {
		return minimax.Result{}, apperror.ErrGameFinished
	}

	turn := tictactoe.NextTurn(board)
	if mark == 0 {
		mark = turn
	}

	if !mark.Valid() {
		return minimax.Result{}, apperror.ErrInvalidMark
	}

	if mark != turn {
		return minimax.Result{}, fmt.Errorf("%w: %s is to move", apperror.ErrNotYourTurn, turn)
	}

	result, err := minimax.Search(board, mark)
	if err != nil {
		return minimax.Result{}, fmt.Errorf("failed to analyze board: %w", err)
	}

	return result, nil
}

func (that *SessionController) reset(ctx context.Context, session *entity.Session) error {
	session.ResetBoard()

	if err := that.openingMove(ctx, session); err != nil {
		return err
	}

	return that.updateSession(ctx, session)
}

// openingMove lets the bot open when it holds X.
func (that *SessionController) openingMove(ctx context.Context, session *entity.Session) error {
	if !session.IsBotMark(tictactoe.NextTurn(session.Board)) {
		return nil
	}

	return that.botTurn(ctx, session)
}

func (that *SessionController) botTurn(ctx context.Context, session *entity.Session) error {
	cell, err := that.bot.ChooseCell(ctx, session.Board, session.BotMark)
	if err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	if err = that.play(session, session.BotMark, cell); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	that.logger.Debug("bot made a turn", "sessionID", session.ID, "cell", cell)

	return nil
}

// play applies one move and records a win in the score.
func (that *SessionController) play(session *entity.Session, mark entity.Mark, cell int) error {
	board, err := tictactoe.ApplyMove(session.Board, cell, mark)
	if err != nil {
		return err
	}

	session.Board = board

	if outcome := tictactoe.Evaluate(board); outcome.IsTerminal() {
		if outcome.Result == entity.Win {
			session.Score.AddWin(outcome.Winner)
		}

		that.logger.Info("game finished", "sessionID", session.ID, "result", outcome.Result.String(), "winner", outcome.Winner.String())
	}

	return nil
}

func (that *SessionController) getSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *SessionController) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}
