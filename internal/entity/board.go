package entity

import (
	"fmt"
	"strings"
)

// BoardSize is the side length of the grid.
const BoardSize = 3

type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	// PlayerTie is only ever stored as a game's winner.
	PlayerTie Mark = "-"

	EmptyCell Mark = ""
)

// Opponent returns the other player's mark.
func (m Mark) Opponent() Mark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (m Mark) String() string {
	if m == EmptyCell {
		return " "
	}
	return string(m)
}

// Move identifies a cell by row and column.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (m Move) Valid() bool {
	return m.Row >= 0 && m.Row < BoardSize && m.Col >= 0 && m.Col < BoardSize
}

func (m Move) String() string {
	return fmt.Sprintf("(%d, %d)", m.Row, m.Col)
}

// WinCombos lists the 3 rows, 3 columns and 2 diagonals.
var WinCombos = [8][BoardSize]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is the 3x3 grid. It is a plain array so assigning a Board copies it.
type Board [BoardSize][BoardSize]Mark

func (that *Board) At(move Move) Mark {
	return that[move.Row][move.Col]
}

// AvailableMoves returns the empty cells in row-major order.
func (that *Board) AvailableMoves() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that[row][col] == EmptyCell {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

func (that *Board) HasWon(mark Mark) bool {
	if mark != PlayerX && mark != PlayerO {
		return false
	}

	for _, combo := range WinCombos {
		if that.At(combo[0]) == mark && that.At(combo[1]) == mark && that.At(combo[2]) == mark {
			return true
		}
	}

	return false
}

func (that *Board) IsFull() bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that[row][col] == EmptyCell {
				return false
			}
		}
	}

	return true
}

// Winner returns the mark holding a full line, or EmptyCell.
func (that *Board) Winner() Mark {
	switch {
	case that.HasWon(PlayerX):
		return PlayerX
	case that.HasWon(PlayerO):
		return PlayerO
	default:
		return EmptyCell
	}
}

func (that *Board) IsTerminal() bool {
	return that.Winner() != EmptyCell || that.IsFull()
}

func (that *Board) Count(mark Mark) int {
	count := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that[row][col] == mark {
				count++
			}
		}
	}

	return count
}

// Apply places mark on an empty cell. Callers must only pass moves taken from
// AvailableMoves; anything else is a bug and panics.
func (that *Board) Apply(move Move, mark Mark) {
	if !move.Valid() {
		panic(fmt.Sprintf("apply: move %s out of range", move))
	}

	if mark != PlayerX && mark != PlayerO {
		panic(fmt.Sprintf("apply: invalid mark %q", string(mark)))
	}

	if that[move.Row][move.Col] != EmptyCell {
		panic(fmt.Sprintf("apply: cell %s is occupied by %s", move, that[move.Row][move.Col]))
	}

	that[move.Row][move.Col] = mark
}

// Undo clears a cell set by Apply.
func (that *Board) Undo(move Move) {
	if !move.Valid() {
		panic(fmt.Sprintf("undo: move %s out of range", move))
	}

	if that[move.Row][move.Col] == EmptyCell {
		panic(fmt.Sprintf("undo: cell %s is already empty", move))
	}

	that[move.Row][move.Col] = EmptyCell
}

func (that *Board) String() string {
	var sb strings.Builder

	separator := strings.Repeat("-", BoardSize*2-1)
	for _, row := range that {
		cells := make([]string, 0, BoardSize)
		for _, cell := range row {
			cells = append(cells, cell.String())
		}

		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
		sb.WriteString(separator)
		sb.WriteString("\n")
	}

	return sb.String()
}

// ParseBoard builds a board from three rows such as "OXO", "XX." and "O..".
// A '.', '_' or ' ' marks an empty cell.
func ParseBoard(rows ...string) (Board, error) {
	var board Board

	if len(rows) != BoardSize {
		return board, fmt.Errorf("%w: want %d rows, got %d", ErrMalformedBoard, BoardSize, len(rows))
	}

	for row, line := range rows {
		if len(line) != BoardSize {
			return board, fmt.Errorf("%w: row %d has %d cells", ErrMalformedBoard, row, len(line))
		}

		for col, ch := range line {
			switch ch {
			case 'X', 'x':
				board[row][col] = PlayerX
			case 'O', 'o':
				board[row][col] = PlayerO
			case '.', '_', ' ':
				board[row][col] = EmptyCell
			default:
				return board, fmt.Errorf("%w: unexpected %q at %d,%d", ErrMalformedBoard, ch, row, col)
			}
		}
	}

	return board, nil
}

// MustParseBoard is ParseBoard for fixtures known to be valid.
func MustParseBoard(rows ...string) Board {
	board, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}

	return board
}
