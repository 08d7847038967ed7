package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type BotService interface {
	ChooseCell(ctx context.Context, board entity.Board, mark entity.Mark) (int, error)
}

type moveCache interface {
	Get(ctx context.Context, board entity.Board, mark entity.Mark) (int, error)
	Set(ctx context.Context, board entity.Board, mark entity.Mark, cell int) error
}

type botService struct {
	logger *slog.Logger
	cache  moveCache
}

// NewBotService returns a bot that always plays the minimax move. Results
// are memoised in cache; a failing cache only costs a fresh search.
func NewBotService(logger *slog.Logger, cache moveCache) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		cache:  cache,
	}
}

func (that *botService) ChooseCell(ctx context.Context, board entity.Board, mark entity.Mark) (int, error) {
	log := that.logger.With("method", "ChooseCell", "board", board.String(), "mark", mark.String())

	legal := tictactoe.LegalMoves(board)

	cell, err := that.cache.Get(ctx, board, mark)
	switch {
	case err == nil && slices.Contains(legal, cell):
		log.Debug("cached move", "cell", cell)
		return cell, nil
	case err == nil:
		log.Warn("ignoring illegal cached move", "cell", cell)
	case !errors.Is(err, repository.ErrMoveNotCached):
		log.Warn("move cache unavailable", "error", err)
	}

	result, err := minimax.Search(board, mark)
	if err != nil {
		return 0, fmt.Errorf("bot failed to find a move: %w", err)
	}

	log.Debug("searched move", "cell", result.Cell, "score", result.Score)

	if err = that.cache.Set(ctx, board, mark, result.Cell); err != nil {
		log.Warn("failed to cache move", "error", err)
	}

	return result.Cell, nil
}
