package service

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

type BotService interface {
	MakeTurn(game *entity.Game) (entity.Move, error)
}

type moveFinder interface {
	BestMove(board *entity.Board) (entity.Move, error)
}

type botService struct {
	engine moveFinder
}

func NewBotService(engine moveFinder) BotService {
	return &botService{
		engine: engine,
	}
}

// MakeTurn plays the engine's move for the computer.
func (that *botService) MakeTurn(game *entity.Game) (entity.Move, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return entity.Move{}, fmt.Errorf("bot can't move: %w", err)
	}

	chosenMove, err := that.engine.BestMove(&game.Board)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to find bot move: %w", err)
	}

	if err = game.MakeTurn(entity.ComputerMark, chosenMove); err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return chosenMove, nil
}
