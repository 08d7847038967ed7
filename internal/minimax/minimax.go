// Package minimax picks optimal tic-tac-toe moves by exhaustive game-tree
// search.
//
// Scores are seen from the maximizing mark: a win found at depth d is worth
// 10-d, a loss d-10 and a draw 0, so faster wins and slower losses rank
// higher. Boards are explored as private copies, the caller's board is
// never touched.
package minimax

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const winScore = 10

// Result is the chosen cell and the score it guarantees.
type Result struct {
	Cell  int
	Score int
}

// BestMove returns the cell maximizing should play on board.
func BestMove(board entity.Board, maximizing entity.Mark) (int, error) {
	result, err := Search(board, maximizing)
	if err != nil {
		return 0, err
	}
	return result.Cell, nil
}

// Search scores every legal move for maximizing and keeps the first one
// with the strictly greatest score, so ties go to the lowest index.
func Search(board entity.Board, maximizing entity.Mark) (Result, error) {
	if !maximizing.Valid() {
		return Result{}, apperror.ErrInvalidMark
	}

	moves := tictactoe.LegalMoves(board)
	if len(moves) == 0 {
		return Result{}, fmt.Errorf("%w: board %s is full", apperror.ErrNoLegalMove, board)
	}

	s := searcher{maxCell: maximizing.Cell(), minCell: maximizing.Opponent().Cell()}

	best := Result{Score: math.MinInt}
	for _, cell := range moves {
		next := board
		next[cell] = s.maxCell

		if score := s.score(next, 0, false); score > best.Score {
			best = Result{Cell: cell, Score: score}
		}
	}

	return best, nil
}

type searcher struct {
	maxCell entity.Cell
	minCell entity.Cell
}

func (that searcher) score(board entity.Board, depth int, maximizingTurn bool) int {
	if outcome := tictactoe.Evaluate(board); outcome.IsTerminal() {
		switch {
		case outcome.Result == entity.Draw:
			return 0
		case outcome.Winner.Cell() == that.maxCell:
			return winScore - depth
		default:
			return depth - winScore
		}
	}

	if maximizingTurn {
		best := math.MinInt
		for cell := range board {
			if !board[cell].IsEmpty() {
				continue
			}

			next := board
			next[cell] = that.maxCell
			best = max(best, that.score(next, depth+1, false))
		}
		return best
	}

	best := math.MaxInt
	for cell := range board {
		if !board[cell].IsEmpty() {
			continue
		}

		next := board
		next[cell] = that.minCell
		best = min(best, that.score(next, depth+1, true))
	}
	return best
}
