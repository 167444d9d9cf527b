package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/tictactoe-console/internal/entity"
)

var (
	humanStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007e50ff", Dark: "#6afd76ff"}).Bold(true)
	computerStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0003adff", Dark: "#5f61fcff"}).Bold(true)
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#414141ff", Dark: "#8f8f8fff"})
	winStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#bb0000ff", Dark: "#df1010ff"}).Bold(true)
)

// Renderer turns a board into text. Without colour it prints exactly
// Board.String.
type Renderer struct {
	color bool
}

func NewRenderer(color bool) *Renderer {
	return &Renderer{color: color}
}

func (that *Renderer) Board(board *entity.Board) string {
	if !that.color {
		return board.String()
	}

	var sb strings.Builder

	separator := separatorStyle.Render(strings.Repeat("-", entity.BoardSize*2-1))
	pipe := separatorStyle.Render(" | ")

	for row := 0; row < entity.BoardSize; row++ {
		cells := make([]string, 0, entity.BoardSize)
		for col := 0; col < entity.BoardSize; col++ {
			cells = append(cells, that.mark(board.At(entity.Move{Row: row, Col: col})))
		}

		sb.WriteString(strings.Join(cells, pipe))
		sb.WriteString("\n")
		sb.WriteString(separator)
		sb.WriteString("\n")
	}

	return sb.String()
}

func (that *Renderer) mark(mark entity.Mark) string {
	switch mark {
	case entity.HumanMark:
		return humanStyle.Render(mark.String())
	case entity.ComputerMark:
		return computerStyle.Render(mark.String())
	default:
		return mark.String()
	}
}

// Result styles a game-over line.
func (that *Renderer) Result(text string) string {
	if !that.color {
		return text
	}

	return winStyle.Render(text)
}
