package director

import (
	"fmt"
	"math"

	"github.com/ByLCY/celllayout/layout"
)

// Viewport 把宿主的尺寸与拖动事件翻译为 Director 调用。
//
// 一次拖动手势中，第一次移动按位移较大的轴确定方向，并沿命中节点的父链查找
// 该方向上的 linear 容器；之后的移动只在这个容器的主轴上滚动。
type Viewport struct {
	d *Director

	width, height float64

	hit    *layout.Cell
	target *layout.Cell
	axis   layout.Orientation
	locked bool
}

// NewViewport 创建绑定到 d 的 Viewport。
func NewViewport(d *Director) *Viewport {
	return &Viewport{d: d}
}

// Size 返回最近一次 OnResize 的尺寸。
func (v *Viewport) Size() (w, h float64) { return v.width, v.height }

// Target 返回当前手势锁定的滚动容器，未锁定时返回 nil。
func (v *Viewport) Target() *layout.Cell { return v.target }

// OnResize 记录宿主尺寸并立即重新布局。
func (v *Viewport) OnResize(w, h float64) error {
	if v.d.Root() == nil {
		return ErrNoRoot
	}
	v.width, v.height = w, h
	v.d.RequestLayout()
	return v.d.MeasureAndLayout(0, 0, w, h)
}

// OnGestureBegin 开始一次拖动：对 (x, y) 做命中测试，并清除上一次手势锁定的容器。
func (v *Viewport) OnGestureBegin(x, y float64) *layout.Cell {
	v.hit = v.d.FindByPosition(x, y)
	v.target = nil
	v.locked = false
	return v.hit
}

// OnGestureMove 处理一次拖动位移，返回实际生效的滚动量。
func (v *Viewport) OnGestureMove(dx, dy float64) (float64, float64, error) {
	if v.hit == nil {
		return 0, 0, nil
	}
	if !v.locked {
		v.axis = layout.Vertical
		if math.Abs(dx) > math.Abs(dy) {
			v.axis = layout.Horizontal
		}
		v.target = v.d.FindAncestorLinearGroup(v.hit, v.axis)
		v.locked = true
	}
	if v.target == nil {
		return 0, 0, nil
	}
	if v.axis == layout.Vertical {
		dx = 0
	} else {
		dy = 0
	}
	mx, my, err := v.d.MoveBy(v.target, dx, dy)
	if err != nil {
		return mx, my, fmt.Errorf("viewport: 滚动 %s linear %d: %w", v.axis, v.target.ID(), err)
	}
	return mx, my, nil
}

// OnGestureEnd 结束拖动并触发 move-complete。
func (v *Viewport) OnGestureEnd() error {
	v.hit = nil
	v.target = nil
	v.locked = false
	return v.d.OnGestureComplete()
}
