package director

import "github.com/ByLCY/celllayout/layout"

// Listener 接收 Director 在布局、滚动与手势结束时发出的生命周期事件。
// 回调内不得修改树结构（会得到 layout.ErrTreeBusy），需要修改时使用 Director.Defer。
// 回调返回的错误会中止触发它的操作，并原样（包装后）返回给宿主。
type Listener interface {
	// OnLayoutComplete 在一次 MeasureAndLayout 完成可见性刷新后触发。
	OnLayoutComplete(root *layout.Cell) error
	// OnVisibilityChanged 在节点可见性变化（或强制刷新）时触发，c.Visible() 为新值。
	OnVisibilityChanged(c *layout.Cell) error
	// OnPositionChanged 在滚动使节点移动时触发。
	OnPositionChanged(c *layout.Cell, from, to layout.Rect) error
	// OnMoveComplete 在一次拖动手势结束时触发。
	OnMoveComplete() error
}

// ListenerFuncs 用函数字段实现 Listener，未设置的字段视为空操作。
type ListenerFuncs struct {
	LayoutComplete    func(root *layout.Cell) error
	VisibilityChanged func(c *layout.Cell) error
	PositionChanged   func(c *layout.Cell, from, to layout.Rect) error
	MoveComplete      func() error
}

var _ Listener = ListenerFuncs{}

func (f ListenerFuncs) OnLayoutComplete(root *layout.Cell) error {
	if f.LayoutComplete == nil {
		return nil
	}
	return f.LayoutComplete(root)
}

func (f ListenerFuncs) OnVisibilityChanged(c *layout.Cell) error {
	if f.VisibilityChanged == nil {
		return nil
	}
	return f.VisibilityChanged(c)
}

func (f ListenerFuncs) OnPositionChanged(c *layout.Cell, from, to layout.Rect) error {
	if f.PositionChanged == nil {
		return nil
	}
	return f.PositionChanged(c, from, to)
}

func (f ListenerFuncs) OnMoveComplete() error {
	if f.MoveComplete == nil {
		return nil
	}
	return f.MoveComplete()
}
