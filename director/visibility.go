package director

import (
	"fmt"

	"github.com/ByLCY/celllayout/layout"
)

// isVisible 判断 c 是否与根节点矩形重叠。可见性总是相对最外层视口，而不是中间的可滚动祖先；
// 任一矩形退化时视为不可见。
func (d *Director) isVisible(c *layout.Cell) bool {
	if d.root == nil {
		return false
	}
	return c.Box().Intersects(d.root.Box())
}

// updateVisibility 重新计算单个节点的可见性；force 为真或结果变化时触发回调。
func (d *Director) updateVisibility(c *layout.Cell, force bool) error {
	changed := c.UpdateVisible(d.isVisible(c))
	if !force && !changed {
		return nil
	}
	for _, l := range d.listeners {
		if err := l.OnVisibilityChanged(c); err != nil {
			return fmt.Errorf("director: 可见性回调失败 (cell %d): %w", c.ID(), err)
		}
	}
	return nil
}

// refreshVisibility 无条件地重新计算整棵树每个节点的可见性。
func (d *Director) refreshVisibility(force bool) error {
	var err error
	d.root.Walk(func(c *layout.Cell) bool {
		err = d.updateVisibility(c, force)
		return err == nil
	})
	return err
}
