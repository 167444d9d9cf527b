package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-console/internal/config"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-console/internal/service"
	"github.com/rocketscienceinc/tictactoe-console/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-console/transport/console"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - plays one console game on in/out.
func RunApp(logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var gameRepo repository.GameRepository
	if conf.Redis.Enabled {
		if conf.Redis.Host == "" || conf.Redis.Port == "" {
			return ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		gameRepo = repository.NewGameRepository(redisStorage.Connection, conf.Redis.SessionTTL)
	}

	engine := minimax.New(logger)
	botService := service.NewBotService(engine)
	gameManager := newGameManager(logger, conf.SessionID, gameRepo, botService)

	game, err := console.New(logger, in, out, console.NewRenderer(!conf.NoColor), gameManager).Play(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, console.ErrInputClosed) {
			log.Info("game interrupted", "error", err)
			return nil
		}

		return fmt.Errorf("game failed: %w", err)
	}

	log.Info("game over", "game_id", game.ID, "result", string(game.Result()), "moves", entity.BoardSize*entity.BoardSize-len(game.Board.AvailableMoves()))

	return nil
}

// newGameManager keeps a nil repository from reaching the manager as a
// non-nil interface.
func newGameManager(logger *slog.Logger, sessionID string, gameRepo repository.GameRepository, botService service.BotService) *usecase.GameManager {
	if gameRepo == nil {
		return usecase.NewGameManager(logger, sessionID, nil, botService)
	}

	return usecase.NewGameManager(logger, sessionID, gameRepo, botService)
}
