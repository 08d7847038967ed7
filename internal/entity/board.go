package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// BoardSize is the number of cells on the 3x3 grid.
const BoardSize = 9

// Mark is the symbol a player places on the board. X always moves first.
type Mark uint8

const (
	MarkX Mark = iota + 1
	MarkO
)

// ParseMark converts "X"/"O" (case-insensitive) to a Mark.
func ParseMark(s string) (Mark, error) {
	switch strings.ToUpper(s) {
	case "X":
		return MarkX, nil
	case "O":
		return MarkO, nil
	default:
		return 0, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}
}

func (that Mark) Valid() bool {
	return that == MarkX || that == MarkO
}

// Opponent returns the other mark.
func (that Mark) Opponent() Mark {
	if that == MarkX {
		return MarkO
	}
	return MarkX
}

// Cell returns the cell state holding this mark.
func (that Mark) Cell() Cell {
	return Cell(that)
}

func (that Mark) String() string {
	switch that {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*that = 0
		return nil
	}

	mark, err := ParseMark(string(text))
	if err != nil {
		return err
	}

	*that = mark
	return nil
}

// Cell is the content of a single board square.
type Cell uint8

const (
	EmptyCell Cell = Cell(0)
	CellX     Cell = Cell(MarkX)
	CellO     Cell = Cell(MarkO)
)

func (that Cell) IsEmpty() bool {
	return that == EmptyCell
}

// Mark returns the mark occupying the cell, false when it is empty.
func (that Cell) Mark() (Mark, bool) {
	if that == EmptyCell {
		return 0, false
	}
	return Mark(that), true
}

func (that Cell) String() string {
	return Mark(that).String()
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	var mark Mark
	if err := mark.UnmarshalText(text); err != nil {
		return err
	}

	*that = Cell(mark)
	return nil
}

// Board is the 3x3 grid stored row-major. It is a value type: copying a
// Board copies every cell.
type Board [BoardSize]Cell

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// Count returns how many cells hold the given mark.
func (that Board) Count(mark Mark) int {
	n := 0
	for _, cell := range that {
		if cell == mark.Cell() {
			n++
		}
	}
	return n
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell.IsEmpty() {
			return false
		}
	}
	return true
}

func (that Board) IsEmpty() bool {
	return that == Board{}
}

// String renders the board as three rows, "." for empty cells.
func (that Board) String() string {
	var sb strings.Builder
	for i, cell := range that {
		if cell.IsEmpty() {
			sb.WriteByte('.')
		} else {
			sb.WriteString(cell.String())
		}

		if i%3 == 2 && i != BoardSize-1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// Line is a triple of cell indices that wins when uniformly marked.
type Line [3]int

// WinCombos lists every line in scan order: rows, then columns, then diagonals.
var WinCombos = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}
