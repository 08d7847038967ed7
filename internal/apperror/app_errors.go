package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrNoLegalMove = errors.New("no legal move available")

	ErrInvalidCell  = fmt.Errorf("%w: invalid cell index", ErrIllegalMove)
	ErrCellOccupied = fmt.Errorf("%w: cell is already occupied", ErrIllegalMove)
	ErrNotYourTurn  = fmt.Errorf("%w: it's not your turn", ErrIllegalMove)
	ErrInvalidMark  = fmt.Errorf("%w: unknown mark", ErrIllegalMove)

	ErrGameFinished    = errors.New("game is already finished")
	ErrInvalidBoard    = errors.New("board is not reachable in legal play")
	ErrInvalidMode     = errors.New("unknown game mode")
	ErrSessionNotFound = errors.New("session not found")
)
