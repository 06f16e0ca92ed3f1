package layout

// gridStrategy 将容器均分为 rows×columns 个基础格子，子节点按 GridSpec 定位与跨越。
type gridStrategy struct{}

// cellSize 返回单个基础格子的宽高：(尺寸 - padding - (n-1)·divider) / n。
func (gridStrategy) cellSize(g *Cell) (float64, float64) {
	cols, rows := max(g.columns, 1), max(g.rows, 1)
	w := (g.box.W - g.padding.Horizontal() - float64(cols-1)*g.divider) / float64(cols)
	h := (g.box.H - g.padding.Vertical() - float64(rows-1)*g.divider) / float64(rows)
	return max(w, 0), max(h, 0)
}

func (s gridStrategy) measure(g *Cell) {
	baseW, baseH := s.cellSize(g)
	for _, child := range g.children {
		p := child.params
		cs, rs := float64(p.Grid.columnSpan()), float64(p.Grid.rowSpan())
		w := cs*baseW + (cs-1)*g.divider - p.Margin.Horizontal()
		h := rs*baseH + (rs-1)*g.divider - p.Margin.Vertical()
		child.Measure(w, h)
	}
}

func (s gridStrategy) layout(g *Cell, x, y, scrollX, scrollY float64) {
	baseW, baseH := s.cellSize(g)
	for _, child := range g.children {
		p := child.params
		cx := x + g.padding.Left + p.Margin.Left + float64(p.Grid.Column)*(baseW+g.divider)
		cy := y + g.padding.Top + p.Margin.Top + float64(p.Grid.Row)*(baseH+g.divider)
		child.Layout(cx, cy, scrollX, scrollY)
	}
}

// contentSize 网格不滚动，内容尺寸即容器尺寸。
func (gridStrategy) contentSize(g *Cell) (float64, float64) {
	return g.box.W, g.box.H
}
