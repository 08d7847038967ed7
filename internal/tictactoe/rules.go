package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// ApplyMove places player's mark on cell and returns the resulting board.
// The input board is never modified.
func ApplyMove(board entity.Board, cell int, player entity.Mark) (entity.Board, error) {
	if err := validateMove(board, cell, player); err != nil {
		return board, fmt.Errorf("invalid turn: %w", err)
	}

	board[cell] = player.Cell()

	return board, nil
}

// validateMove - checks if the move is valid.
func validateMove(board entity.Board, cell int, player entity.Mark) error {
	if cell < 0 || cell >= len(board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !player.Valid() {
		return apperror.ErrInvalidMark
	}

	if !board[cell].IsEmpty() {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	if NextTurn(board) != player {
		return apperror.ErrNotYourTurn
	}

	return nil
}

// NextTurn returns the mark that moves next. X moves whenever both marks
// have been placed equally often.
func NextTurn(board entity.Board) entity.Mark {
	if board.Count(entity.MarkX) == board.Count(entity.MarkO) {
		return entity.MarkX
	}
	return entity.MarkO
}

// Evaluate scans the lines in WinCombos order and reports the first
// completed one. A full board without a line is a draw.
func Evaluate(board entity.Board) entity.Outcome {
	for _, line := range entity.WinCombos {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if !a.IsEmpty() && a == b && b == c {
			winner, _ := a.Mark()
			return entity.WinOutcome(winner, line)
		}
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return entity.InProgressOutcome()
	}

	return entity.DrawOutcome()
}

// LegalMoves returns the empty cell indices in ascending order.
func LegalMoves(board entity.Board) []int {
	moves := make([]int, 0, len(board))
	for i, cell := range board {
		if cell.IsEmpty() {
			moves = append(moves, i)
		}
	}
	return moves
}

// winningMarks returns every mark that owns at least one completed line.
func winningMarks(board entity.Board) map[entity.Mark]struct{} {
	marks := make(map[entity.Mark]struct{}, 2)
	for _, line := range entity.WinCombos {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if mark, ok := a.Mark(); ok && a == b && b == c {
			marks[mark] = struct{}{}
		}
	}
	return marks
}

// ValidateBoard checks that board could have been produced by legal play:
// every cell holds a known mark, X leads O by zero or one, and at most one
// mark owns a completed line. The winner must also have made the last move.
func ValidateBoard(board entity.Board) error {
	for i, cell := range board {
		if cell != entity.EmptyCell && cell != entity.CellX && cell != entity.CellO {
			return fmt.Errorf("%w: cell %d holds %d", apperror.ErrInvalidBoard, i, cell)
		}
	}

	xCount, oCount := board.Count(entity.MarkX), board.Count(entity.MarkO)
	if diff := xCount - oCount; diff != 0 && diff != 1 {
		return fmt.Errorf("%w: %d X and %d O", apperror.ErrInvalidBoard, xCount, oCount)
	}

	winners := winningMarks(board)
	if len(winners) > 1 {
		return fmt.Errorf("%w: both marks have a line", apperror.ErrInvalidBoard)
	}

	if _, ok := winners[entity.MarkX]; ok && xCount == oCount {
		return fmt.Errorf("%w: X won but O moved afterwards", apperror.ErrInvalidBoard)
	}

	if _, ok := winners[entity.MarkO]; ok && xCount != oCount {
		return fmt.Errorf("%w: O won but X moved afterwards", apperror.ErrInvalidBoard)
	}

	return nil
}
