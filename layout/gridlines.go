package layout

import "fmt"

// ItemFunc 为第 index 个条目创建节点。
type ItemFunc func(index int) *Cell

// GridLines 用“外层 linear + 每行一个固定列数的 grid”模拟可变数量的网格。
// 调整数量时只改动末尾的行，不会重排整个结构。
type GridLines struct {
	tree     *Tree
	outer    *Cell
	columns  int
	lineSize float64
	newItem  ItemFunc
	count    int
}

// NewGridLines 创建外层容器。orientation 为行的堆叠方向；每行最多容纳 columns 个条目，
// 行在主轴上的尺寸固定为 lineSize。newItem 为空时创建普通叶子节点。
func NewGridLines(t *Tree, o Orientation, columns int, lineSize, divider float64, newItem ItemFunc) *GridLines {
	return &GridLines{
		tree:     t,
		outer:    t.NewLinear(o, divider),
		columns:  max(columns, 1),
		lineSize: lineSize,
		newItem:  newItem,
	}
}

// Root 返回外层 linear 容器，可直接挂到任意父容器下。
func (g *GridLines) Root() *Cell { return g.outer }

// Count 返回当前条目数量。
func (g *GridLines) Count() int { return g.count }

// Item 返回第 i 个条目，越界返回 nil。
func (g *GridLines) Item(i int) *Cell {
	if i < 0 || i >= g.count {
		return nil
	}
	line := g.outer.Child(i / g.columns)
	if line == nil {
		return nil
	}
	return line.Child(i % g.columns)
}

// SetCount 调整条目数量：增长时先填满最后一行，再追加新行；缩减时逐个移除末尾条目，
// 并丢弃变空的行。
func (g *GridLines) SetCount(n int) error {
	n = max(n, 0)
	for g.count < n {
		if err := g.grow(); err != nil {
			return err
		}
	}
	for g.count > n {
		if err := g.shrink(); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridLines) grow() error {
	line := g.outer.Child(g.outer.ChildCount() - 1)
	if line == nil || line.ChildCount() >= g.columns {
		line = g.newLine()
		params := Params{Height: g.lineSize}
		if g.outer.orientation == Horizontal {
			params = Params{Width: g.lineSize}
		}
		if err := g.outer.AddChild(line, &params); err != nil {
			return fmt.Errorf("追加网格行失败: %w", err)
		}
	}

	var item *Cell
	if g.newItem != nil {
		item = g.newItem(g.count)
	}
	if item == nil {
		item = g.tree.NewCell()
	}
	slot := line.ChildCount()
	params := Params{Grid: GridSpec{Column: slot}}
	if g.outer.orientation == Horizontal {
		params = Params{Grid: GridSpec{Row: slot}}
	}
	if err := line.AddChild(item, &params); err != nil {
		return fmt.Errorf("追加网格条目 %d 失败: %w", g.count, err)
	}
	g.count++
	return nil
}

func (g *GridLines) newLine() *Cell {
	if g.outer.orientation == Horizontal {
		return g.tree.NewGrid(g.columns, 1, g.outer.divider)
	}
	return g.tree.NewGrid(1, g.columns, g.outer.divider)
}

func (g *GridLines) shrink() error {
	line := g.outer.Child(g.outer.ChildCount() - 1)
	if line == nil {
		g.count = 0
		return nil
	}
	if last := line.Child(line.ChildCount() - 1); last != nil {
		if !line.RemoveChild(last) {
			return fmt.Errorf("移除网格条目 %d 失败: %w", g.count-1, ErrTreeBusy)
		}
		g.count--
	}
	if line.ChildCount() == 0 && !g.outer.RemoveChild(line) {
		return fmt.Errorf("移除空网格行失败: %w", ErrTreeBusy)
	}
	return nil
}
