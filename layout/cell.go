package layout

import (
	"errors"
	"fmt"
)

// 结构性错误：发生时调用立即失败，树保持不变。
var (
	ErrInvalidID       = errors.New("layout: cell 标识非法")
	ErrHasParent       = errors.New("layout: cell 已经挂载在其他容器上")
	ErrMissingParams   = errors.New("layout: 缺少 Params")
	ErrNotGroup        = errors.New("layout: 叶子节点不能包含子节点")
	ErrSameOrientation = errors.New("layout: 同方向的 linear 容器不能直接嵌套")
	ErrNotMergeable    = errors.New("layout: 只能合并同方向的 linear 容器")
	ErrCycle           = errors.New("layout: 不能把祖先节点加入自身子树")
	ErrTreeBusy        = errors.New("layout: 回调执行期间禁止修改树结构")
)

// Layoutable 是节点对外暴露的最小能力集合。
type Layoutable interface {
	Measure(width, height float64)
	Layout(x, y, scrollX, scrollY float64)
	Params() Params
	SetParams(p Params)
}

var _ Layoutable = (*Cell)(nil)

// Cell 是布局树中的节点。叶子与容器共用同一结构，由 kind 选择布局算法。
type Cell struct {
	id     ID
	kind   Kind
	tree   *Tree
	parent *Cell // 弱引用，不表示所有权

	params  Params
	padding Edges
	box     Rect // 绝对坐标，已包含所有祖先的滚动偏移
	visible bool

	// 容器专用字段
	children    []*Cell
	orientation Orientation
	rows        int
	columns     int
	divider     float64
	scrollX     float64
	scrollY     float64
	contentW    float64
	contentH    float64

	// 记录上一次测量/布局使用的约束，相同约束的重复调用直接跳过。
	measured       bool
	lastW, lastH   float64
	laidOut        bool
	lastX, lastY   float64
	lastSX, lastSY float64
}

// ID 返回节点标识。
func (c *Cell) ID() ID { return c.id }

// Kind 返回节点形态。
func (c *Cell) Kind() Kind { return c.kind }

// IsGroup 报告节点是否为容器。
func (c *Cell) IsGroup() bool { return c.kind != KindLeaf }

// Parent 返回父容器，根节点返回 nil。
func (c *Cell) Parent() *Cell { return c.parent }

// Root 返回所在树的根节点。
func (c *Cell) Root() *Cell {
	n := c
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Tree 返回创建该节点的 Tree。
func (c *Cell) Tree() *Tree { return c.tree }

// Box 返回节点的绝对矩形。
func (c *Cell) Box() Rect { return c.box }

// Visible 返回最近一次可见性检查的结果。
func (c *Cell) Visible() bool { return c.visible }

// UpdateVisible 写入新的可见性并报告是否发生变化。
func (c *Cell) UpdateVisible(v bool) (changed bool) {
	changed = c.visible != v
	c.visible = v
	return changed
}

// Params 返回挂载约束的拷贝。
func (c *Cell) Params() Params { return c.params }

// SetParams 整体替换约束，并请求重新测量与布局。
func (c *Cell) SetParams(p Params) {
	c.params = p
	c.requestLayout()
}

// Padding 返回内边距。
func (c *Cell) Padding() Edges { return c.padding }

// SetPadding 设置内边距并请求重新测量与布局。
func (c *Cell) SetPadding(e Edges) {
	c.padding = e
	c.requestLayout()
}

// Orientation 返回线性容器方向；非线性容器返回 Vertical。
func (c *Cell) Orientation() Orientation { return c.orientation }

// Rows 返回网格行数。
func (c *Cell) Rows() int { return c.rows }

// Columns 返回网格列数。
func (c *Cell) Columns() int { return c.columns }

// Divider 返回子节点之间的间隔。
func (c *Cell) Divider() float64 { return c.divider }

// ScrollOffset 返回容器自身的滚动偏移（不含祖先）。
func (c *Cell) ScrollOffset() (x, y float64) { return c.scrollX, c.scrollY }

// ContentSize 返回最近一次测量得到的内容尺寸。
func (c *Cell) ContentSize() (w, h float64) { return c.contentW, c.contentH }

// ChildCount 返回直接子节点数量。
func (c *Cell) ChildCount() int { return len(c.children) }

// Child 返回第 i 个子节点，越界返回 nil。
func (c *Cell) Child(i int) *Cell {
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}

// Children 返回子节点切片的拷贝。
func (c *Cell) Children() []*Cell {
	out := make([]*Cell, len(c.children))
	copy(out, c.children)
	return out
}

// IndexOf 返回直接子节点的下标，不存在时返回 -1。
func (c *Cell) IndexOf(child *Cell) int {
	for i, ch := range c.children {
		if ch == child {
			return i
		}
	}
	return -1
}

// IsAncestorOf 报告 c 是否为 other 的祖先（不含自身）。
func (c *Cell) IsAncestorOf(other *Cell) bool {
	if other == nil {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == c {
			return true
		}
	}
	return false
}

// Ancestors 返回从父容器到根节点的祖先链，根节点返回空切片。
func (c *Cell) Ancestors() []*Cell {
	var out []*Cell
	for p := c.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}

// NeedsLayout 报告节点是否有未完成的测量或布局请求。
func (c *Cell) NeedsLayout() bool { return !c.measured || !c.laidOut }

// AddChild 将 child 以 params 的拷贝追加到末尾。
func (c *Cell) AddChild(child *Cell, params *Params) error {
	return c.InsertChild(len(c.children), child, params)
}

// InsertChild 将 child 插入到 index 位置（越界时夹到合法范围）。
// 失败时树保持不变；成功后沿祖先链请求重新测量与布局。
func (c *Cell) InsertChild(index int, child *Cell, params *Params) error {
	if err := c.canAdopt(child, params); err != nil {
		return err
	}
	index = min(max(index, 0), len(c.children))
	c.children = append(c.children, nil)
	copy(c.children[index+1:], c.children[index:])
	c.children[index] = child

	child.parent = c
	child.params = *params
	child.measured = false
	child.laidOut = false
	c.requestLayout()
	return nil
}

func (c *Cell) canAdopt(child *Cell, params *Params) error {
	if child == nil || child.id == InvalidID {
		return fmt.Errorf("容器 %d 无法挂载: %w", c.id, ErrInvalidID)
	}
	if child.tree != c.tree {
		return fmt.Errorf("cell %d 不属于容器 %d 所在的 Tree: %w", child.id, c.id, ErrInvalidID)
	}
	if !c.IsGroup() {
		return fmt.Errorf("cell %d 无法挂载到 %d: %w", child.id, c.id, ErrNotGroup)
	}
	if c.tree.Busy() {
		return fmt.Errorf("cell %d 无法挂载到 %d: %w", child.id, c.id, ErrTreeBusy)
	}
	if child.parent != nil {
		return fmt.Errorf("cell %d 的父容器为 %d: %w", child.id, child.parent.id, ErrHasParent)
	}
	if params == nil {
		return fmt.Errorf("cell %d 挂载到 %d: %w", child.id, c.id, ErrMissingParams)
	}
	if child == c || child.IsAncestorOf(c) {
		return fmt.Errorf("cell %d 挂载到 %d: %w", child.id, c.id, ErrCycle)
	}
	if c.kind == KindLinear && child.kind == KindLinear && c.orientation == child.orientation {
		return fmt.Errorf("%s linear %d 挂载到 %d: %w", child.orientation, child.id, c.id, ErrSameOrientation)
	}
	return nil
}

// RemoveChild 将直接子节点摘除并清空其父引用。child 不是直接子节点时返回 false。
// 树处于冻结状态时同样返回 false。
func (c *Cell) RemoveChild(child *Cell) bool {
	idx := c.IndexOf(child)
	if idx < 0 {
		return false
	}
	if c.tree.Busy() {
		c.tree.logger().Warn("回调期间忽略 RemoveChild", "group", c.id, "cell", child.id)
		return false
	}
	c.removeAt(idx)
	c.requestLayout()
	return true
}

func (c *Cell) removeAt(idx int) {
	child := c.children[idx]
	copy(c.children[idx:], c.children[idx+1:])
	c.children[len(c.children)-1] = nil
	c.children = c.children[:len(c.children)-1]
	child.parent = nil
}

// Merge 将同方向的 linear 容器 other 拆箱：其子节点按原顺序追加到 c 的末尾，
// other 本身从父容器摘除并清空。
func (c *Cell) Merge(other *Cell) error {
	if other == nil || c.kind != KindLinear || other.kind != KindLinear || c.orientation != other.orientation {
		return ErrNotMergeable
	}
	if other.tree != c.tree {
		return fmt.Errorf("linear %d 不属于同一 Tree: %w", other.id, ErrInvalidID)
	}
	if c.tree.Busy() {
		return fmt.Errorf("合并 %d 到 %d: %w", other.id, c.id, ErrTreeBusy)
	}
	if other == c || other.IsAncestorOf(c) {
		return fmt.Errorf("合并 %d 到 %d: %w", other.id, c.id, ErrCycle)
	}
	if p := other.parent; p != nil {
		p.removeAt(p.IndexOf(other))
		p.requestLayout()
	}
	for _, ch := range other.children {
		ch.parent = c
		ch.measured = false
		ch.laidOut = false
		c.children = append(c.children, ch)
	}
	other.children = nil
	c.requestLayout()
	return nil
}

// ForceMeasure 清除自身及祖先链的测量标记。
func (c *Cell) ForceMeasure() {
	for n := c; n != nil; n = n.parent {
		n.measured = false
		n.laidOut = false
	}
}

// ForceLayout 清除自身及祖先链的布局标记。
func (c *Cell) ForceLayout() {
	for n := c; n != nil; n = n.parent {
		n.laidOut = false
	}
}

// requestLayout 在结构或约束变化后向上传播：即使祖先自身的矩形不变，内容尺寸也可能变化。
func (c *Cell) requestLayout() { c.ForceMeasure() }

// Measure 为节点分配尺寸，并按 kind 测量子节点、缓存内容尺寸。
func (c *Cell) Measure(width, height float64) {
	width, height = max(width, 0), max(height, 0)
	if c.measured && c.lastW == width && c.lastH == height {
		return
	}
	c.box.W, c.box.H = width, height
	c.contentW, c.contentH = width, height
	if s, ok := strategies[c.kind]; ok {
		s.measure(c)
		c.contentW, c.contentH = s.contentSize(c)
	}
	// 内容缩小后滚动偏移可能越界，这里重新夹紧。
	c.scrollX = clampOffset(c.scrollX, c.box.W, c.contentW)
	c.scrollY = clampOffset(c.scrollY, c.box.H, c.contentH)

	c.measured = true
	c.lastW, c.lastH = width, height
	c.laidOut = false
}

// Layout 把节点放到 (x, y)（未滚动坐标），scrollX/scrollY 为所有祖先滚动偏移之和。
// 存储的矩形已叠加祖先滚动；子节点额外叠加本容器自身的滚动偏移。
func (c *Cell) Layout(x, y, scrollX, scrollY float64) {
	if c.laidOut && c.lastX == x && c.lastY == y && c.lastSX == scrollX && c.lastSY == scrollY {
		return
	}
	c.box.X = x + scrollX
	c.box.Y = y + scrollY
	if s, ok := strategies[c.kind]; ok {
		s.layout(c, x, y, scrollX+c.scrollX, scrollY+c.scrollY)
	}
	c.laidOut = true
	c.lastX, c.lastY = x, y
	c.lastSX, c.lastSY = scrollX, scrollY
}

// ClampScroll 将 (dx, dy) 限制在可滚动范围内，返回实际可用的增量。
// 偏移量始终位于 [min(0, size-content), 0]。
func (c *Cell) ClampScroll(dx, dy float64) (float64, float64) {
	if !c.IsGroup() {
		return 0, 0
	}
	nx := clampOffset(c.scrollX+dx, c.box.W, c.contentW)
	ny := clampOffset(c.scrollY+dy, c.box.H, c.contentH)
	return nx - c.scrollX, ny - c.scrollY
}

// ApplyScroll 累加容器自身的滚动偏移，不移动任何子节点。
func (c *Cell) ApplyScroll(dx, dy float64) {
	c.scrollX += dx
	c.scrollY += dy
}

// Offset 平移节点矩形，同时更新布局缓存中的祖先滚动量，使后续相同布局请求可以跳过。
func (c *Cell) Offset(dx, dy float64) {
	c.box = c.box.Translate(dx, dy)
	c.lastSX += dx
	c.lastSY += dy
}

func clampOffset(offset, size, content float64) float64 {
	lo := min(0, size-content)
	return max(lo, min(0, offset))
}

// Walk 深度优先前序遍历子树（包含自身）。fn 返回 false 时提前结束，Walk 也返回 false。
func (c *Cell) Walk(fn func(*Cell) bool) bool {
	if !fn(c) {
		return false
	}
	for _, ch := range c.children {
		if !ch.Walk(fn) {
			return false
		}
	}
	return true
}

// WalkDescendants 与 Walk 相同，但不访问自身。
func (c *Cell) WalkDescendants(fn func(*Cell) bool) bool {
	for _, ch := range c.children {
		if !ch.Walk(fn) {
			return false
		}
	}
	return true
}

// FindByID 返回子树中第一个标识匹配的节点，找不到返回 nil。
func (c *Cell) FindByID(id ID) *Cell {
	var found *Cell
	c.Walk(func(n *Cell) bool {
		if n.id == id {
			found = n
			return false
		}
		return true
	})
	return found
}
