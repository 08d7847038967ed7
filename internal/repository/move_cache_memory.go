package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type memoryMoveCache struct {
	mu    sync.RWMutex
	moves map[string]int
}

// NewMemoryMoveCache is the in-process MoveCache used when Redis is disabled.
func NewMemoryMoveCache() MoveCache {
	return &memoryMoveCache{
		moves: make(map[string]int),
	}
}

func (that *memoryMoveCache) Get(_ context.Context, board entity.Board, mark entity.Mark) (int, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	cell, ok := that.moves[moveKey(board, mark)]
	if !ok {
		return 0, ErrMoveNotCached
	}

	return cell, nil
}

func (that *memoryMoveCache) Set(_ context.Context, board entity.Board, mark entity.Mark, cell int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.moves[moveKey(board, mark)] = cell

	return nil
}
