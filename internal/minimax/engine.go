// Package minimax picks the computer's move with an exhaustive game-tree search.
//
// The computer (O) is the maximizer and the human (X) the minimizer. A
// terminal position is scored relative to the number of moves made since the
// search root, so faster wins and slower losses score better. The tree is
// small enough at 3x3 to be searched in full on every call: there is no
// pruning and no memoization.
package minimax

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/rocketscienceinc/tictactoe-console/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

const winScore = 10

var ErrNoAvailableMoves = errors.New("no available moves")

const (
	maximizer = entity.ComputerMark
	minimizer = entity.HumanMark
)

type Engine struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Engine {
	return &Engine{
		logger: logger.With("component", "minimax"),
	}
}

// BestMove returns the optimal move for the computer. The board must not be
// terminal: a board with a winner yields apperror.ErrGameFinished and a full
// board yields ErrNoAvailableMoves. The board is explored in place and is
// identical to its input state when BestMove returns.
func (that *Engine) BestMove(board *entity.Board) (entity.Move, error) {
	s := &search{board: board}

	move, score, err := s.bestMove()
	if err != nil {
		return entity.Move{}, err
	}

	that.logger.Debug("best move found", "move", move.String(), "score", score, "nodes", s.nodes)

	return move, nil
}

// BestMove runs a search without logging.
func BestMove(board *entity.Board) (entity.Move, error) {
	move, _, err := (&search{board: board}).bestMove()
	return move, err
}

// Evaluate returns the minimax score of board at the given depth, with
// maximizing telling whether the computer is to move.
func Evaluate(board *entity.Board, depth int, maximizing bool) int {
	return (&search{board: board}).evaluate(depth, maximizing)
}

type search struct {
	board *entity.Board
	nodes int
}

func (s *search) bestMove() (entity.Move, int, error) {
	if winner := s.board.Winner(); winner != entity.EmptyCell {
		return entity.Move{}, 0, fmt.Errorf("%w: %s has won", apperror.ErrGameFinished, winner)
	}

	moves := s.board.AvailableMoves()
	if len(moves) == 0 {
		return entity.Move{}, 0, ErrNoAvailableMoves
	}

	bestScore := math.MinInt
	bestMove := moves[0]

	for _, move := range moves {
		s.board.Apply(move, maximizer)
		score := s.evaluate(0, false)
		s.board.Undo(move)

		// strictly greater keeps the first move in row-major order on ties
		if score > bestScore {
			bestScore = score
			bestMove = move
		}
	}

	return bestMove, bestScore, nil
}

func (s *search) evaluate(depth int, maximizing bool) int {
	s.nodes++

	if s.board.HasWon(maximizer) {
		return winScore - depth
	}

	if s.board.HasWon(minimizer) {
		return depth - winScore
	}

	if s.board.IsFull() {
		return 0
	}

	if maximizing {
		best := math.MinInt
		for _, move := range s.board.AvailableMoves() {
			s.board.Apply(move, maximizer)
			best = max(best, s.evaluate(depth+1, false))
			s.board.Undo(move)
		}

		return best
	}

	best := math.MaxInt
	for _, move := range s.board.AvailableMoves() {
		s.board.Apply(move, minimizer)
		best = min(best, s.evaluate(depth+1, true))
		s.board.Undo(move)
	}

	return best
}
