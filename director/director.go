// Package director 驱动节点树的测量、布局、滚动与可见性追踪，
// 并把生命周期事件分发给 Listener（通常是 recycler.Manager）。
//
// Director 不做任何加锁：所有调用必须来自同一个宿主线程（UI/渲染线程）。
package director

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ByLCY/celllayout/layout"
	"github.com/ByLCY/celllayout/logging"
)

var (
	// ErrReentrant 表示在回调分发期间再次调用了 MeasureAndLayout / MoveBy / OnGestureComplete。
	ErrReentrant = errors.New("director: 回调执行期间不允许重入")
	// ErrNoRoot 表示需要根节点的操作在 SetRoot 之前被调用。
	ErrNoRoot = errors.New("director: 尚未设置根节点")
)

// Options 配置 Director。
type Options struct {
	Logger *slog.Logger
}

// Director 拥有根节点，串联 测量 → 布局 → 可见性 与滚动流水线。
type Director struct {
	root            *layout.Cell
	needsLayout     bool
	forceVisibility bool
	listeners       []Listener

	dispatching bool
	deferred    []func()
	log         *slog.Logger
}

// New 创建 Director。
func New(opts Options) *Director {
	d := &Director{log: opts.Logger}
	if d.log == nil {
		d.log = logging.New("director")
	}
	return d
}

// AddListener 注册事件接收者，按注册顺序分发。
func (d *Director) AddListener(l Listener) {
	if l != nil {
		d.listeners = append(d.listeners, l)
	}
}

// SetRoot 替换根节点（任意 Cell，容器或叶子），并请求下一次布局。
func (d *Director) SetRoot(c *layout.Cell) {
	d.root = c
	d.needsLayout = true
}

// Root 返回当前根节点。
func (d *Director) Root() *layout.Cell { return d.root }

// RequestLayout 设置 needs-layout 标记，例如宿主尺寸变化时。
func (d *Director) RequestLayout() { d.needsLayout = true }

// RequestFullRefresh 请求布局，并让下一次可见性刷新对每个节点都触发回调。
func (d *Director) RequestFullRefresh() {
	d.needsLayout = true
	d.forceVisibility = true
}

// NeedsLayout 报告下一次 MeasureAndLayout 是否会执行。
func (d *Director) NeedsLayout() bool {
	return d.root != nil && (d.needsLayout || d.root.NeedsLayout())
}

// Defer 在回调分发期间把 fn 推迟到本次分发结束后执行；不在分发期间时立即执行。
// 回调中需要修改树结构时应使用它。
func (d *Director) Defer(fn func()) {
	if fn == nil {
		return
	}
	if d.dispatching {
		d.deferred = append(d.deferred, fn)
		return
	}
	fn()
}

// MeasureAndLayout 在存在根节点且需要布局时，把根节点测量为 width×height、放置到 (left, top)，
// 随后对整棵树重新计算可见性并触发 layout-complete。
// 除 needs-layout 标记外，结构变化（AddChild 等向上传播的请求）同样会触发布局。
func (d *Director) MeasureAndLayout(left, top, width, height float64) error {
	if d.dispatching {
		return ErrReentrant
	}
	if !d.NeedsLayout() {
		return nil
	}
	return d.dispatch(func() error {
		root := d.root
		root.Measure(width, height)
		root.Layout(left, top, 0, 0)

		force := d.forceVisibility
		d.needsLayout = false
		d.forceVisibility = false
		d.log.Debug("布局完成", "root", root.ID(), "box", root.Box(), "force", force)

		if err := d.refreshVisibility(force); err != nil {
			return err
		}
		for _, l := range d.listeners {
			if err := l.OnLayoutComplete(root); err != nil {
				return fmt.Errorf("director: layout-complete 回调失败: %w", err)
			}
		}
		return nil
	})
}

// OnGestureComplete 在拖动结束时触发 move-complete，用于让接收者收敛视图状态。
func (d *Director) OnGestureComplete() error {
	return d.dispatch(func() error {
		for _, l := range d.listeners {
			if err := l.OnMoveComplete(); err != nil {
				return fmt.Errorf("director: move-complete 回调失败: %w", err)
			}
		}
		return nil
	})
}

// FindByPosition 返回包含点 (x, y) 的最深节点：从根开始按深度优先顺序，
// 只有父节点命中时才继续检查其子节点，同层取第一个命中者。
// 与普通先序遍历取第一个命中不同：容器命中后若有子节点也命中，返回子节点。
func (d *Director) FindByPosition(x, y float64) *layout.Cell {
	if d.root == nil {
		return nil
	}
	var hit *layout.Cell
	d.root.Walk(func(c *layout.Cell) bool {
		candidate := c == d.root || (hit != nil && c.Parent() == hit)
		if candidate && c.Box().Contains(x, y) {
			hit = c
		}
		return true
	})
	return hit
}

// FindAncestorLinearGroup 从 c（含自身）沿父链向上查找指定方向的 linear 容器。
// 用于把手势路由到对应轴向的可滚动祖先。
func (d *Director) FindAncestorLinearGroup(c *layout.Cell, o layout.Orientation) *layout.Cell {
	for n := c; n != nil; n = n.Parent() {
		if n.Kind() == layout.KindLinear && n.Orientation() == o {
			return n
		}
	}
	return nil
}

// dispatch 在冻结树结构的状态下执行 fn，结束后执行 Defer 推迟的任务。
func (d *Director) dispatch(fn func() error) error {
	if d.dispatching {
		return ErrReentrant
	}
	d.dispatching = true
	var unfreeze func()
	if d.root != nil && d.root.Tree() != nil {
		unfreeze = d.root.Tree().Freeze()
	}

	err := fn()

	if unfreeze != nil {
		unfreeze()
	}
	d.dispatching = false
	d.flushDeferred()
	return err
}

func (d *Director) flushDeferred() {
	for len(d.deferred) > 0 {
		queued := d.deferred
		d.deferred = nil
		for _, fn := range queued {
			fn()
		}
	}
}
