package engine

import (
	"fmt"
	"strings"
)

// FormatBoard renders s as fixed-width ASCII, oriented for player A: B's
// row on top running from pit 11 down to pit 6, A's row beneath from pit 0
// up to pit 5. Identical states always render identically.
func FormatBoard(s GameState) string {
	var b strings.Builder

	b.WriteString("   pit: ")
	for pit := PitCount - 1; pit >= RowSize; pit-- {
		fmt.Fprintf(&b, " %3d ", pit)
	}
	b.WriteByte('\n')

	b.WriteString("  B     ")
	for pit := PitCount - 1; pit >= RowSize; pit-- {
		fmt.Fprintf(&b, "[%3d]", s.Pits[pit])
	}
	fmt.Fprintf(&b, "  captured %d\n", s.Captured.B)

	b.WriteString("  A     ")
	for pit := 0; pit < RowSize; pit++ {
		fmt.Fprintf(&b, "[%3d]", s.Pits[pit])
	}
	fmt.Fprintf(&b, "  captured %d\n", s.Captured.A)

	b.WriteString("   pit: ")
	for pit := 0; pit < RowSize; pit++ {
		fmt.Fprintf(&b, " %3d ", pit)
	}
	b.WriteByte('\n')

	switch {
	case s.Ended && s.Winner == WinnerDraw:
		fmt.Fprintf(&b, "  turn %d: game over, draw %d-%d\n",
			s.TurnCount, s.Captured.A, s.Captured.B)
	case s.Ended:
		fmt.Fprintf(&b, "  turn %d: game over, %s wins %d-%d\n",
			s.TurnCount, s.Winner, s.Captured.A, s.Captured.B)
	default:
		fmt.Fprintf(&b, "  turn %d: %s to move\n", s.TurnCount, s.CurrentPlayer)
	}
	return b.String()
}
