package tetris

// FillRow sets every cell of row y to color except the given columns.
func (f *Field) FillRow(y, color int, except ...int) {
	for x := range f.grid[y] {
		f.grid[y][x] = color
	}
	for _, x := range except {
		f.grid[y][x] = 0
	}
}

// FillRow fills row y of the match field. Rows must stay clear of the
// falling piece.
func (m *Match) FillRow(y, color int, except ...int) {
	m.field.FillRow(y, color, except...)
}
