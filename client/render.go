package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"tetris/leaderboard"
	"tetris/tetris"
	"text/template"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos  = "\033[H" // Reset cursor position to 0,0
	clearLine = "\033[K" // Clear to the end of the line
	empty     = "  "
)

//go:embed "layout.tmpl"
var layout string

// palette maps a cell color id to its ANSI color. Ids past the palette wrap around.
var palette = []string{Cyan, Yellow, Magenta, Green, Red, Blue, Orange}

type frame struct {
	*tetris.Snapshot
	Top []leaderboard.Record
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
}

func newRender(w io.Writer, l *slog.Logger) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{writer: w, logger: l, template: tmp}, nil
}

func (r *render) render(f *frame) {
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, f); err != nil {
		r.logger.Error("unable to execute template in render()", slog.String("error", err.Error()))
	}
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"rows":  rows,
		"side":  side,
		"floor": floor,
		"help":  help,
	}

	// we use the console raw so new lines don't automatically transform into carriage return
	// to fix that we clear and add a carriage return to every new line in the layout.
	l := strings.ReplaceAll(layout, "\n", clearLine+"\r\n")
	l = strings.ReplaceAll(l, "Terminal Tetris", "\033[1mTerminal Tetris\033[0m")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

func block(color int) string {
	if color <= 0 {
		return empty
	}
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", palette[(color-1)%len(palette)])
}

// rows renders the field with the falling piece on top of it.
func rows(f *frame) []string {
	w, h := f.Field.Width(), f.Field.Height()
	cells := make([][]string, h)
	for y := range cells {
		cells[y] = make([]string, w)
		for x := range cells[y] {
			cells[y][x] = block(f.Field.Cell(x, y))
		}
	}
	if f.State == tetris.Playing {
		for _, c := range f.Current.Cells() {
			if c.Y >= 0 && c.Y < h && c.X >= 0 && c.X < w {
				cells[c.Y][c.X] = block(f.Current.Color)
			}
		}
	}

	rendered := make([]string, h)
	for y := range cells {
		rendered[y] = strings.Join(cells[y], "")
	}
	return rendered
}

func floor(f *frame) string {
	return strings.Repeat("--", f.Field.Width())
}

// side returns the text printed to the right of the field on row i: the next
// piece, the name prompt or game over message, then the leaderboard.
func side(f *frame, i int) string {
	switch {
	case i == 0:
		return "Next:"
	case i >= 1 && i <= 4:
		return nextRow(f.Next, i-1)
	case i == 6 && f.State == tetris.EnteringName:
		return "Game over! Enter your name:"
	case i == 7 && f.State == tetris.EnteringName:
		return "> " + f.Name + "_"
	case i == 6 && f.State == tetris.GameOver:
		if f.Committed {
			return "Game over! Score saved."
		}
		return "Game over!"
	case i == 8 && len(f.Top) > 0:
		return "Leaderboard"
	case i > 8 && i-9 < len(f.Top):
		r := f.Top[i-9]
		return fmt.Sprintf("%d. %-20s %d", i-8, r.Name, r.Score)
	}
	return ""
}

func nextRow(p tetris.Piece, row int) string {
	out := []string{empty, empty, empty, empty}
	p.X, p.Y = 0, 0
	for _, c := range p.Cells() {
		if c.Y == row {
			out[c.X] = block(p.Color)
		}
	}
	return strings.Join(out, "")
}

func help(f *frame) string {
	switch f.State {
	case tetris.EnteringName:
		return "(enter) save   (esc) skip"
	case tetris.GameOver:
		return "(r)estart   (q)uit"
	}
	return "←/→ move   ↑ rotate   ↓ down   space drop   (esc) quit"
}
