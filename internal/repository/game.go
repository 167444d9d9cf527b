package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

// GameRepository keeps the unfinished game of a console session so it can be
// resumed. Finished games are deleted, not archived.
type GameRepository interface {
	CreateOrUpdate(ctx context.Context, sessionID string, game *entity.Game) error
	GetBySessionID(ctx context.Context, sessionID string) (*entity.Game, error)
	DeleteBySessionID(ctx context.Context, sessionID string) error
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository stores games under "game:<session id>". A zero ttl keeps
// keys until they are deleted.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func gameKey(sessionID string) string {
	return "game:" + sessionID
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, sessionID string, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	err = that.client.Set(ctx, gameKey(sessionID), gameJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetBySessionID(ctx context.Context, sessionID string) (*entity.Game, error) {
	response, err := that.client.Get(ctx, gameKey(sessionID)).Result()

	if errors.Is(err, redis.Nil) {
		return &entity.Game{}, ErrGameNotFound
	}

	if err != nil {
		return &entity.Game{}, fmt.Errorf("failed to get game by session id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return &entity.Game{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *dbGame) DeleteBySessionID(ctx context.Context, sessionID string) error {
	deleted, err := that.client.Del(ctx, gameKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by session id: %w", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}
