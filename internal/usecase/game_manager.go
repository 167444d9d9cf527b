package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, sessionID string, game *entity.Game) error
	GetBySessionID(ctx context.Context, sessionID string) (*entity.Game, error)
	DeleteBySessionID(ctx context.Context, sessionID string) error
}

type botService interface {
	MakeTurn(game *entity.Game) (entity.Move, error)
}

// GameManager runs the turns of one console session. The session store is
// optional; when it fails the game carries on and the error is only logged.
type GameManager struct {
	logger *slog.Logger

	sessionID  string
	gameRepo   gameRepo
	botService botService
}

// NewGameManager builds a manager. gameRepo may be nil.
func NewGameManager(logger *slog.Logger, sessionID string, gameRepo gameRepo, botService botService) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager", "session_id", sessionID),

		sessionID:  sessionID,
		gameRepo:   gameRepo,
		botService: botService,
	}
}

// StartGame resumes the session's unfinished game or starts a new one.
func (that *GameManager) StartGame(ctx context.Context) (*entity.Game, error) {
	log := that.logger.With("method", "StartGame")

	if that.gameRepo != nil {
		game, err := that.gameRepo.GetBySessionID(ctx, that.sessionID)
		switch {
		case err == nil && game.IsOngoing():
			log.Info("resuming game", "game_id", game.ID)
			return game, nil
		case err == nil:
			that.deleteGame(ctx, game)
		case !errors.Is(err, repository.ErrGameNotFound):
			log.Error("failed to load saved game", "error", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	game := entity.NewGame(uuid.NewString())
	that.saveGame(ctx, game)

	log.Info("new game started", "game_id", game.ID)

	return game, nil
}

// HumanTurn plays move for the human. Invalid moves are returned as errors
// and leave the game untouched.
func (that *GameManager) HumanTurn(ctx context.Context, game *entity.Game, move entity.Move) error {
	if err := game.MakeTurn(entity.HumanMark, move); err != nil {
		return fmt.Errorf("failed make turn: %w", err)
	}

	that.logger.Debug("human moved", "game_id", game.ID, "move", move.String())
	that.afterTurn(ctx, game)

	return nil
}

// ComputerTurn lets the bot play and returns its move.
func (that *GameManager) ComputerTurn(ctx context.Context, game *entity.Game) (entity.Move, error) {
	move, err := that.botService.MakeTurn(game)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed bot turn: %w", err)
	}

	that.logger.Debug("computer moved", "game_id", game.ID, "move", move.String())
	that.afterTurn(ctx, game)

	return move, nil
}

func (that *GameManager) afterTurn(ctx context.Context, game *entity.Game) {
	if game.IsFinished() {
		that.logger.Info("game finished", "game_id", game.ID, "result", string(game.Result()))
		that.deleteGame(ctx, game)

		return
	}

	that.saveGame(ctx, game)
}

func (that *GameManager) saveGame(ctx context.Context, game *entity.Game) {
	if that.gameRepo == nil {
		return
	}

	if err := that.gameRepo.CreateOrUpdate(ctx, that.sessionID, game); err != nil {
		that.logger.Error("failed to save game", "game_id", game.ID, "error", err)
	}
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	if that.gameRepo == nil {
		return
	}

	log := that.logger.With("method", "deleteGame")

	err := that.gameRepo.DeleteBySessionID(ctx, that.sessionID)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Error("failed to delete game", "game_id", game.ID, "error", err)
		return
	}

	log.Debug("game deleted", "game_id", game.ID)
}
