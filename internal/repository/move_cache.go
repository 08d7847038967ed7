package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrMoveNotCached = errors.New("move not cached")

// MoveCache remembers the best move found for a board and the mark to play.
type MoveCache interface {
	Get(ctx context.Context, board entity.Board, mark entity.Mark) (int, error)
	Set(ctx context.Context, board entity.Board, mark entity.Mark, cell int) error
}

type dbMoveCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMoveCacheRepository stores moves in Redis. A zero ttl keeps them forever.
func NewMoveCacheRepository(client *redis.Client, ttl time.Duration) MoveCache {
	return &dbMoveCache{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbMoveCache) Get(ctx context.Context, board entity.Board, mark entity.Mark) (int, error) {
	response, err := that.client.Get(ctx, moveKey(board, mark)).Result()

	if errors.Is(err, redis.Nil) {
		return 0, ErrMoveNotCached
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get cached move: %w", err)
	}

	cell, err := strconv.Atoi(response)
	if err != nil {
		return 0, fmt.Errorf("failed to parse cached move %q: %w", response, err)
	}

	return cell, nil
}

func (that *dbMoveCache) Set(ctx context.Context, board entity.Board, mark entity.Mark, cell int) error {
	err := that.client.Set(ctx, moveKey(board, mark), cell, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set cached move: %w", err)
	}

	return nil
}

// moveKey looks like "bestmove:O:X../.X./...".
func moveKey(board entity.Board, mark entity.Mark) string {
	return "bestmove:" + mark.String() + ":" + board.String()
}
