package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

const (
	HumanMark    = PlayerX
	ComputerMark = PlayerO
)

var (
	ErrUnknownGameStatus = errors.New("unknown game status")
	ErrMalformedBoard    = errors.New("malformed board")
)

// Result is the outcome of a single game.
type Result string

const (
	ResultInProgress    Result = "in progress"
	ResultWonByHuman    Result = "won by human"
	ResultWonByComputer Result = "won by computer"
	ResultTied          Result = "tied"
)

type Game struct {
	ID     string `json:"id"`
	Board  Board  `json:"board"`
	Winner Mark   `json:"winner"`
	Status string `json:"status"`
	Turn   Mark   `json:"player_turn"`
}

// NewGame returns an empty ongoing game with the human to move.
func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Turn:   HumanMark,
		Status: StatusOngoing,
	}
}

// UpdateGameState derives status and winner from the board.
func (that *Game) UpdateGameState() {
	if winner := that.Board.Winner(); winner != EmptyCell {
		that.Winner = winner
		that.Status = StatusFinished
		that.Turn = EmptyCell

		return
	}

	// the game will continue until all the squares are full
	if that.Board.IsFull() {
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = EmptyCell

		return
	}

	that.Status = StatusOngoing
}

// MakeTurn validates and plays a move for playerMark. Unlike Board.Apply it
// never panics, so it is safe to feed with user input.
func (that *Game) MakeTurn(playerMark Mark, move Move) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if !move.Valid() {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidCell, move)
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if that.Board.At(move) != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board.Apply(move, playerMark)
	that.Turn = playerMark.Opponent()

	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) Result() Result {
	if !that.IsFinished() {
		return ResultInProgress
	}

	switch that.Winner {
	case HumanMark:
		return ResultWonByHuman
	case ComputerMark:
		return ResultWonByComputer
	default:
		return ResultTied
	}
}
