package layout

// linearStrategy 沿主轴依次排列子节点。
// 主轴尺寸取自 Params（由作者指定，不做计算）；交叉轴尺寸 = 容器尺寸 - padding - margin。
type linearStrategy struct{}

func (linearStrategy) measure(g *Cell) {
	o := g.orientation
	cross := g.box.W - g.padding.Horizontal()
	if o == Horizontal {
		cross = g.box.H - g.padding.Vertical()
	}
	for _, child := range g.children {
		p := child.params
		main := p.main(o)
		if main <= 0 {
			g.tree.logger().Warn("子节点缺少主轴尺寸，按 0 处理",
				"group", g.id, "cell", child.id, "orientation", o.String())
			main = 0
		}
		childCross := max(cross-p.crossMargin(o), 0)
		if o == Horizontal {
			child.Measure(main, childCross)
		} else {
			child.Measure(childCross, main)
		}
	}
}

func (linearStrategy) layout(g *Cell, x, y, scrollX, scrollY float64) {
	o := g.orientation
	cursor := g.padding.leading(o)
	for i, child := range g.children {
		m := child.params.Margin
		if i > 0 {
			cursor += g.divider
		}
		cursor += m.leading(o)
		if o == Horizontal {
			child.Layout(x+cursor, y+g.padding.Top+m.Top, scrollX, scrollY)
			cursor += child.box.W
		} else {
			child.Layout(x+g.padding.Left+m.Left, y+cursor, scrollX, scrollY)
			cursor += child.box.H
		}
		cursor += m.trailing(o)
	}
}

// contentSize 主轴 = padding + Σ(margin + 尺寸) + (n-1)·divider；交叉轴等于容器自身尺寸。
func (linearStrategy) contentSize(g *Cell) (float64, float64) {
	o := g.orientation
	extent := g.padding.leading(o) + g.padding.trailing(o)
	for i, child := range g.children {
		if i > 0 {
			extent += g.divider
		}
		m := child.params.Margin
		extent += m.leading(o) + m.trailing(o)
		if o == Horizontal {
			extent += child.box.W
		} else {
			extent += child.box.H
		}
	}
	if o == Horizontal {
		return extent, g.box.H
	}
	return g.box.W, extent
}
