package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

const (
	welcomeText      = "Welcome to Tic-Tac-Toe!"
	rolesText        = "You are X and the AI is O."
	rowPrompt        = "Enter row (0, 1, 2): "
	colPrompt        = "Enter column (0, 1, 2): "
	invalidInputText = "Invalid input. Please enter row and column as integers between 0 and 2."
	invalidMoveText  = "Invalid move. Try again."
	computerTurnText = "AI's turn..."
	humanWinsText    = "Congratulations! You win!"
	computerWinsText = "AI wins! Better luck next time."
	tieText          = "It's a tie!"
)

var errNotANumber = errors.New("not a number")

type gameManager interface {
	StartGame(ctx context.Context) (*entity.Game, error)
	HumanTurn(ctx context.Context, game *entity.Game, move entity.Move) error
	ComputerTurn(ctx context.Context, game *entity.Game) (entity.Move, error)
}

// Console plays one game over a text stream: the board and prompts go to out,
// the human's row and column are read from in, one number per line.
type Console struct {
	logger   *slog.Logger
	in       io.Reader
	out      io.Writer
	renderer *Renderer
	manager  gameManager
}

func New(logger *slog.Logger, in io.Reader, out io.Writer, renderer *Renderer, manager gameManager) *Console {
	return &Console{
		logger:   logger.With("component", "console"),
		in:       in,
		out:      out,
		renderer: renderer,
		manager:  manager,
	}
}

// Play runs the turn loop until the game ends, the input closes or ctx is
// cancelled. It returns the game in whatever state it reached.
func (that *Console) Play(ctx context.Context) (*entity.Game, error) {
	game, err := that.manager.StartGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not start game: %w", err)
	}

	reader := newLineReader(that.in)
	defer reader.Close()

	that.println(welcomeText)
	that.println(rolesText)

	for {
		// a resumed game may have been saved with the computer to move
		if game.Turn == entity.ComputerMark {
			if err = that.computerTurn(ctx, game); err != nil {
				return game, err
			}

			if game.IsFinished() {
				that.finish(game)
				return game, nil
			}
		}

		that.print(that.renderer.Board(&game.Board))
		if game.IsFinished() {
			that.announce(game)
			return game, nil
		}

		if err = that.humanTurn(ctx, reader, game); err != nil {
			return game, err
		}

		if game.IsFinished() {
			that.finish(game)
			return game, nil
		}
	}
}

func (that *Console) humanTurn(ctx context.Context, reader *lineReader, game *entity.Game) error {
	for {
		move, err := that.readMove(ctx, reader)
		if errors.Is(err, errNotANumber) {
			that.println(invalidInputText)
			continue
		}

		if err != nil {
			return err
		}

		err = that.manager.HumanTurn(ctx, game, move)
		switch {
		case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrCellOccupied):
			that.logger.Debug("rejected move", "move", move.String(), "error", err)
			that.println(invalidMoveText)
		case err != nil:
			return fmt.Errorf("human turn failed: %w", err)
		default:
			return nil
		}
	}
}

func (that *Console) readMove(ctx context.Context, reader *lineReader) (entity.Move, error) {
	row, err := that.readInt(ctx, reader, rowPrompt)
	if err != nil {
		return entity.Move{}, err
	}

	col, err := that.readInt(ctx, reader, colPrompt)
	if err != nil {
		return entity.Move{}, err
	}

	return entity.Move{Row: row, Col: col}, nil
}

func (that *Console) readInt(ctx context.Context, reader *lineReader, prompt string) (int, error) {
	that.print(prompt)

	line, err := reader.ReadLine(ctx)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotANumber, line)
	}

	return value, nil
}

func (that *Console) computerTurn(ctx context.Context, game *entity.Game) error {
	that.println(computerTurnText)

	if _, err := that.manager.ComputerTurn(ctx, game); err != nil {
		return fmt.Errorf("computer turn failed: %w", err)
	}

	return nil
}

func (that *Console) finish(game *entity.Game) {
	that.print(that.renderer.Board(&game.Board))
	that.announce(game)
}

func (that *Console) announce(game *entity.Game) {
	switch game.Result() {
	case entity.ResultWonByHuman:
		that.println(that.renderer.Result(humanWinsText))
	case entity.ResultWonByComputer:
		that.println(that.renderer.Result(computerWinsText))
	case entity.ResultTied:
		that.println(that.renderer.Result(tieText))
	case entity.ResultInProgress:
	}
}

func (that *Console) print(text string) {
	if _, err := io.WriteString(that.out, text); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}

func (that *Console) println(text string) {
	that.print(text + "\n")
}
