package director

import (
	"fmt"

	"github.com/ByLCY/celllayout/layout"
)

// moved 记录滚动前与变化矩形相交的节点及其旧矩形。
type moved struct {
	cell *layout.Cell
	from layout.Rect
}

// MoveBy 是滚动流水线：
//  1. 按容器可滚动范围夹紧 (dx, dy)；
//  2. 夹紧后为 (0, 0) 时不做任何事，也不触发事件；
//  3. 累加容器自身滚动偏移；
//  4. 由容器矩形沿滚动反方向扩展 |delta| 得到变化矩形；
//  5. 前序遍历所有后代：平移前矩形与变化矩形相交者标记为位置变化，所有后代都平移 delta；
//  6. 对标记的节点依次触发 position-changed 并做一次非强制的可见性检查。
//
// 返回实际生效的增量。相交判断使用半开区间（见 layout.Rect.Intersects）。
func (d *Director) MoveBy(group *layout.Cell, dx, dy float64) (float64, float64, error) {
	if d.dispatching {
		return 0, 0, ErrReentrant
	}
	if group == nil || !group.IsGroup() {
		return 0, 0, nil
	}
	dx, dy = group.ClampScroll(dx, dy)
	if dx == 0 && dy == 0 {
		return 0, 0, nil
	}

	err := d.dispatch(func() error {
		change := changeRect(group.Box(), dx, dy)
		group.ApplyScroll(dx, dy)

		var marked []moved
		group.WalkDescendants(func(c *layout.Cell) bool {
			from := c.Box()
			if from.Intersects(change) {
				marked = append(marked, moved{cell: c, from: from})
			}
			c.Offset(dx, dy)
			return true
		})
		d.log.Debug("滚动", "group", group.ID(), "dx", dx, "dy", dy, "changed", len(marked))

		for _, m := range marked {
			for _, l := range d.listeners {
				if err := l.OnPositionChanged(m.cell, m.from, m.cell.Box()); err != nil {
					return fmt.Errorf("director: 位置回调失败 (cell %d): %w", m.cell.ID(), err)
				}
			}
			if err := d.updateVisibility(m.cell, false); err != nil {
				return err
			}
		}
		return nil
	})
	return dx, dy, err
}

// changeRect 将 box 沿滚动反方向扩展：内容向上/左移动时扩展下/右边，反之扩展上/左边。
// 这样可以覆盖本次滚动中可能进入或离开视口的区域。
func changeRect(box layout.Rect, dx, dy float64) layout.Rect {
	r := box
	switch {
	case dx < 0:
		r.W -= dx
	case dx > 0:
		r.X -= dx
		r.W += dx
	}
	switch {
	case dy < 0:
		r.H -= dy
	case dy > 0:
		r.Y -= dy
		r.H += dy
	}
	return r
}
