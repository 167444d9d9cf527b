package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
	"github.com/rocketscienceinc/tictactoe-console/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-console/internal/repository"
	"github.com/rocketscienceinc/tictactoe-console/internal/service"
	"github.com/rocketscienceinc/tictactoe-console/internal/usecase"
)

type memoryRepo struct {
	mu    sync.Mutex
	games map[string]entity.Game
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{games: make(map[string]entity.Game)}
}

func (m *memoryRepo) CreateOrUpdate(_ context.Context, sessionID string, game *entity.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.games[sessionID] = *game
	return nil
}

func (m *memoryRepo) GetBySessionID(_ context.Context, sessionID string) (*entity.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, ok := m.games[sessionID]
	if !ok {
		return &entity.Game{}, repository.ErrGameNotFound
	}

	return &game, nil
}

func (m *memoryRepo) DeleteBySessionID(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[sessionID]; !ok {
		return repository.ErrGameNotFound
	}

	delete(m.games, sessionID)
	return nil
}

type countingBot struct {
	next  service.BotService
	calls int
}

func (b *countingBot) MakeTurn(game *entity.Game) (entity.Move, error) {
	b.calls++
	return b.next.MakeTurn(game)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConsole(input string, repo *memoryRepo) (*Console, *bytes.Buffer, *countingBot) {
	logger := newTestLogger()
	bot := &countingBot{next: service.NewBotService(minimax.New(logger))}

	var manager *usecase.GameManager
	if repo == nil {
		manager = usecase.NewGameManager(logger, "test", nil, bot)
	} else {
		manager = usecase.NewGameManager(logger, "test", repo, bot)
	}

	out := &bytes.Buffer{}

	return New(logger, strings.NewReader(input), out, NewRenderer(false), manager), out, bot
}

func lines(values ...string) string {
	return strings.Join(values, "\n") + "\n"
}

const emptyBoard = "  |   |  \n-----\n  |   |  \n-----\n  |   |  \n-----\n"

func TestConsole_Play(t *testing.T) {
	ctx := context.Background()

	t.Run("Computer wins after a wasted move and an occupied cell", func(t *testing.T) {
		// Given: a human who plays the centre, then an edge, then an occupied cell
		console, out, _ := newTestConsole(lines("1", "1", "0", "1", "2", "1", "0", "2", "1", "0"), nil)

		// When: the game is played
		game, err := console.Play(ctx)

		// Then: the transcript matches the expected dialogue and O wins
		require.NoError(t, err)
		assert.Equal(t, entity.ResultWonByComputer, game.Result())

		expected := "Welcome to Tic-Tac-Toe!\nYou are X and the AI is O.\n" +
			emptyBoard +
			"Enter row (0, 1, 2): Enter column (0, 1, 2): AI's turn...\n" +
			"O |   |  \n-----\n  | X |  \n-----\n  |   |  \n-----\n" +
			"Enter row (0, 1, 2): Enter column (0, 1, 2): AI's turn...\n" +
			"O | X |  \n-----\n  | X |  \n-----\n  | O |  \n-----\n" +
			"Enter row (0, 1, 2): Enter column (0, 1, 2): Invalid move. Try again.\n" +
			"Enter row (0, 1, 2): Enter column (0, 1, 2): AI's turn...\n" +
			"O | X | X\n-----\n  | X |  \n-----\nO | O |  \n-----\n" +
			"Enter row (0, 1, 2): Enter column (0, 1, 2): AI's turn...\n" +
			"O | X | X\n-----\nX | X |  \n-----\nO | O | O\n-----\n" +
			"AI wins! Better luck next time.\n"
		assert.Equal(t, expected, out.String())
	})

	t.Run("Bad input is re-prompted", func(t *testing.T) {
		// Given: a non-number and an out-of-range cell before a valid move
		console, out, _ := newTestConsole(lines("a", "9", "9", "0", "0"), nil)

		// When: the input runs out after the first valid move
		_, err := console.Play(ctx)

		// Then: both errors were reported and the game stopped on closed input
		require.ErrorIs(t, err, ErrInputClosed)

		expected := "Welcome to Tic-Tac-Toe!\nYou are X and the AI is O.\n" +
			emptyBoard +
			"Enter row (0, 1, 2): Invalid input. Please enter row and column as integers between 0 and 2.\n" +
			"Enter row (0, 1, 2): Enter column (0, 1, 2): Invalid move. Try again.\n" +
			"Enter row (0, 1, 2): Enter column (0, 1, 2): AI's turn...\n" +
			"X |   |  \n-----\n  | O |  \n-----\n  |   |  \n-----\n" +
			"Enter row (0, 1, 2): "
		assert.Equal(t, expected, out.String())
	})

	t.Run("Tie on the human's last move", func(t *testing.T) {
		console, out, bot := newTestConsole(lines("0", "0", "0", "1", "2", "0", "1", "2", "2", "2"), nil)

		game, err := console.Play(ctx)

		require.NoError(t, err)
		assert.Equal(t, entity.ResultTied, game.Result())
		assert.Equal(t, 4, bot.calls)
		assert.True(t, strings.HasSuffix(out.String(), "X | X | O\n-----\nO | O | X\n-----\nX | O | X\n-----\nIt's a tie!\n"))
	})

	t.Run("Human wins without asking the computer", func(t *testing.T) {
		// Given: a saved game where X can win at (1, 2)
		repo := newMemoryRepo()
		saved := entity.Game{
			ID: "scenario",
			Board: entity.MustParseBoard(
				"OXO",
				"XX.",
				"O..",
			),
			Status: entity.StatusOngoing,
			Turn:   entity.PlayerX,
		}
		require.NoError(t, repo.CreateOrUpdate(ctx, "test", &saved))

		console, out, bot := newTestConsole(lines("1", "2"), repo)

		// When: the human plays (1, 2)
		game, err := console.Play(ctx)

		// Then: X has won, the engine was never used and the saved game is gone
		require.NoError(t, err)
		assert.True(t, game.Board.HasWon(entity.PlayerX))
		assert.Equal(t, entity.ResultWonByHuman, game.Result())
		assert.Zero(t, bot.calls)
		assert.True(t, strings.HasSuffix(out.String(), "O | X | O\n-----\nX | X | X\n-----\nO |   |  \n-----\nCongratulations! You win!\n"))

		_, err = repo.GetBySessionID(ctx, "test")
		assert.ErrorIs(t, err, repository.ErrGameNotFound)
	})

	t.Run("Resumed game with the computer to move", func(t *testing.T) {
		// Given: a saved game interrupted before the computer answered
		repo := newMemoryRepo()
		saved := entity.NewGame("resumed")
		require.NoError(t, saved.MakeTurn(entity.PlayerX, entity.Move{Row: 1, Col: 1}))
		require.NoError(t, repo.CreateOrUpdate(ctx, "test", saved))

		console, out, bot := newTestConsole("", repo)

		// When: the game is resumed with no further input
		game, err := console.Play(ctx)

		// Then: the computer moves first and the game is saved for next time
		require.ErrorIs(t, err, ErrInputClosed)
		assert.Equal(t, 1, bot.calls)
		assert.Equal(t, entity.PlayerO, game.Board.At(entity.Move{Row: 0, Col: 0}))
		assert.Contains(t, out.String(), "AI's turn...\nO |   |  \n-----\n  | X |  \n")

		stored, err := repo.GetBySessionID(ctx, "test")
		require.NoError(t, err)
		assert.Equal(t, game.Board, stored.Board)
	})

	t.Run("Cancelled context stops a blocked read", func(t *testing.T) {
		// Given: an input stream that never delivers a line
		pipeReader, pipeWriter := io.Pipe()
		t.Cleanup(func() { _ = pipeWriter.Close() })

		logger := newTestLogger()
		manager := usecase.NewGameManager(logger, "test", nil, service.NewBotService(minimax.New(logger)))
		console := New(logger, pipeReader, io.Discard, NewRenderer(false), manager)

		cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		// When: the game waits for the human
		_, err := console.Play(cancelCtx)

		// Then: the deadline ends the game
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestRenderer(t *testing.T) {
	board := entity.MustParseBoard(
		"OXO",
		"XX.",
		"O..",
	)

	t.Run("Plain rendering matches Board.String", func(t *testing.T) {
		assert.Equal(t, board.String(), NewRenderer(false).Board(&board))
		assert.Equal(t, tieText, NewRenderer(false).Result(tieText))
	})

	t.Run("Coloured rendering keeps the layout", func(t *testing.T) {
		rendered := NewRenderer(true).Board(&board)

		assert.Equal(t, entity.BoardSize*2, strings.Count(rendered, "\n"))
		assert.Contains(t, rendered, "X")
		assert.Contains(t, rendered, "O")
		assert.Contains(t, rendered, "-----")
	})
}
