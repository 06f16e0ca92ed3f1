package recycler

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ByLCY/celllayout/director"
	"github.com/ByLCY/celllayout/layout"
	"github.com/ByLCY/celllayout/logging"
)

// State 是节点与视图绑定的阶段。
type State int

const (
	// StatePlaceholder 表示节点当前显示占位视图，等待手势结束后换成内容视图。
	StatePlaceholder State = iota
	// StateContent 表示节点已绑定完整内容。
	StateContent
)

func (s State) String() string {
	if s == StateContent {
		return "content"
	}
	return "placeholder"
}

type binding struct {
	cell  *layout.Cell
	view  View
	state State
	pool  PoolID
}

// Options 配置 Manager。
type Options struct {
	// Capacity 为每个池的容量，≤ 0 时使用 DefaultCapacity。
	Capacity int
	Logger   *slog.Logger
}

// Stats 统计视图的创建与复用情况。
type Stats struct {
	Created  int // 由 ViewFactory 新建的视图
	Reused   int // 从池中取出的视图
	Recycled int // 放回池中的视图
	Dropped  int // 池拒收而被丢弃的视图
}

// Manager 把 Director 的生命周期事件翻译为视图的挂载、移动与回收。
// 可见的叶子节点先挂载占位视图，手势结束或布局完成后再换成内容视图。
// 容器节点不持有视图。
type Manager struct {
	factory  ViewFactory
	surface  Surface
	capacity int

	placeholders *Pool[View]
	pools        map[PoolID]*Pool[View]
	bound        map[*layout.Cell]*binding
	stats        Stats
	log          *slog.Logger
}

var _ director.Listener = (*Manager)(nil)

// NewManager 创建 Manager。
func NewManager(factory ViewFactory, surface Surface, opts Options) *Manager {
	m := &Manager{
		factory:  factory,
		surface:  surface,
		capacity: opts.Capacity,
		pools:    make(map[PoolID]*Pool[View]),
		bound:    make(map[*layout.Cell]*binding),
		log:      opts.Logger,
	}
	if m.log == nil {
		m.log = logging.New("recycler")
	}
	m.placeholders = NewPool[View](m.capacity)
	return m
}

// Binding 返回节点当前绑定的视图与阶段。
// 绑定按节点实例记录：不同 Tree 中相同 ID 的节点互不影响。
func (m *Manager) Binding(c *layout.Cell) (View, State, bool) {
	b, ok := m.bound[c]
	if !ok {
		return nil, 0, false
	}
	return b.view, b.state, true
}

// BoundCount 返回当前绑定的节点数量。
func (m *Manager) BoundCount() int { return len(m.bound) }

// Idle 返回池中闲置的内容视图数量。
func (m *Manager) Idle(id PoolID) int {
	if p, ok := m.pools[id]; ok {
		return p.Len()
	}
	return 0
}

// IdlePlaceholders 返回闲置的占位视图数量。
func (m *Manager) IdlePlaceholders() int { return m.placeholders.Len() }

// Stats 返回累计统计。
func (m *Manager) Stats() Stats { return m.stats }

// OnVisibilityChanged 在叶子节点进入视口时挂载占位视图，离开时回收。
func (m *Manager) OnVisibilityChanged(c *layout.Cell) error {
	if c.IsGroup() {
		return nil
	}
	b := m.bound[c]
	if !c.Visible() {
		if b != nil {
			m.unbind(b)
		}
		return nil
	}
	if b != nil {
		// 强制刷新时已绑定的节点只同步位置
		m.surface.Move(b.view, c.Box())
		return nil
	}
	v, err := m.acquire(m.placeholders, c, m.factory.CreatePlaceholder)
	if err != nil {
		return err
	}
	m.surface.Attach(v, c.Box())
	m.bound[c] = &binding{cell: c, view: v, state: StatePlaceholder}
	return nil
}

// OnPositionChanged 把已绑定的视图移动到新位置。
func (m *Manager) OnPositionChanged(c *layout.Cell, _, to layout.Rect) error {
	if b, ok := m.bound[c]; ok {
		m.surface.Move(b.view, to)
	}
	return nil
}

// OnMoveComplete 把所有占位视图换成内容视图。
func (m *Manager) OnMoveComplete() error {
	return m.settle()
}

// OnLayoutComplete 回收不再属于 root 或已不可见的绑定，同步其余视图的位置，再换入内容视图。
func (m *Manager) OnLayoutComplete(root *layout.Cell) error {
	for _, b := range m.ordered() {
		if b.cell.Root() != root || !b.cell.Visible() {
			m.unbind(b)
			continue
		}
		m.surface.Move(b.view, b.cell.Box())
	}
	return m.settle()
}

// settle 按节点标识顺序完成占位视图到内容视图的替换。
func (m *Manager) settle() error {
	for _, b := range m.ordered() {
		if b.state != StatePlaceholder {
			continue
		}
		if err := m.swap(b); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) swap(b *binding) error {
	c := b.cell
	id := m.factory.PoolID(c)
	pool := m.pool(id)
	v, err := m.acquire(pool, c, m.factory.CreateContent)
	if err != nil {
		return err
	}
	if err := m.factory.BindContent(c, v); err != nil {
		m.release(pool, v)
		return fmt.Errorf("recycler: 绑定 cell %d 的内容失败: %w", c.ID(), err)
	}
	m.surface.Detach(b.view)
	m.surface.Attach(v, c.Box())
	m.release(m.placeholders, b.view)

	b.view, b.state, b.pool = v, StateContent, id
	return nil
}

func (m *Manager) unbind(b *binding) {
	m.surface.Detach(b.view)
	if b.state == StateContent {
		m.release(m.pool(b.pool), b.view)
	} else {
		m.release(m.placeholders, b.view)
	}
	m.factory.OnRecycled(b.cell, b.view)
	delete(m.bound, b.cell)
}

func (m *Manager) acquire(p *Pool[View], c *layout.Cell, create func(*layout.Cell) View) (View, error) {
	if v, ok := p.Acquire(); ok {
		m.stats.Reused++
		return v, nil
	}
	v := create(c)
	if err := checkView(v); err != nil {
		return nil, fmt.Errorf("cell %d: %w", c.ID(), err)
	}
	m.stats.Created++
	return v, nil
}

func (m *Manager) release(p *Pool[View], v View) {
	if err := p.Release(v); err != nil {
		m.stats.Dropped++
		m.log.Debug("池拒收视图", "err", err, "full", errors.Is(err, ErrPoolFull))
		return
	}
	m.stats.Recycled++
}

func (m *Manager) pool(id PoolID) *Pool[View] {
	p, ok := m.pools[id]
	if !ok {
		p = NewPool[View](m.capacity)
		m.pools[id] = p
	}
	return p
}

func (m *Manager) ordered() []*binding {
	out := make([]*binding, 0, len(m.bound))
	for _, b := range m.bound {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *binding) int {
		return cmp.Compare(a.cell.ID(), b.cell.ID())
	})
	return out
}
