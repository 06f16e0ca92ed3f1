package director

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/celllayout/layout"
	"github.com/ByLCY/celllayout/logging"
)

type event struct {
	kind    string
	id      layout.ID
	visible bool
	from    layout.Rect
	to      layout.Rect
}

type recorder struct {
	events []event
}

func (r *recorder) OnLayoutComplete(root *layout.Cell) error {
	r.events = append(r.events, event{kind: "layout", id: root.ID()})
	return nil
}

func (r *recorder) OnVisibilityChanged(c *layout.Cell) error {
	r.events = append(r.events, event{kind: "visibility", id: c.ID(), visible: c.Visible()})
	return nil
}

func (r *recorder) OnPositionChanged(c *layout.Cell, from, to layout.Rect) error {
	r.events = append(r.events, event{kind: "position", id: c.ID(), from: from, to: to})
	return nil
}

func (r *recorder) OnMoveComplete() error {
	r.events = append(r.events, event{kind: "move"})
	return nil
}

func (r *recorder) of(kind string) []event {
	var out []event
	for _, e := range r.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) reset() { r.events = nil }

func newTestDirector() (*Director, *recorder) {
	d := New(Options{Logger: logging.Discard()})
	rec := &recorder{}
	d.AddListener(rec)
	return d, rec
}

// column 构造 100×100 视口中的纵向列表：n 个高度为 h 的叶子。
func column(t *testing.T, n int, h float64) (*layout.Tree, *layout.Cell, []*layout.Cell) {
	t.Helper()
	tree := layout.NewTree(layout.Options{Logger: logging.Discard()})
	root := tree.NewLinear(layout.Vertical, 0)
	var kids []*layout.Cell
	for i := 0; i < n; i++ {
		c := tree.NewCell()
		require.NoError(t, root.AddChild(c, &layout.Params{Height: h}))
		kids = append(kids, c)
	}
	return tree, root, kids
}

func TestMeasureAndLayoutRequiresRoot(t *testing.T) {
	d, rec := newTestDirector()
	assert.False(t, d.NeedsLayout())
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	assert.Empty(t, rec.events)
}

func TestVisibilityConsistency(t *testing.T) {
	d, rec := newTestDirector()
	_, root, kids := column(t, 5, 40)
	d.SetRoot(root)
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))

	want := []bool{true, true, true, false, false}
	for i, c := range kids {
		assert.Equal(t, want[i], c.Visible(), "cell %d", i)
	}
	assert.True(t, root.Visible())

	vis := rec.of("visibility")
	require.Len(t, vis, 4, "只有状态变化的节点触发回调")
	assert.Equal(t, root.ID(), vis[0].id)
	require.Len(t, rec.of("layout"), 1)
	assert.Equal(t, "layout", rec.events[len(rec.events)-1].kind, "layout-complete 在可见性之后")

	// 不需要布局时不做任何事
	rec.reset()
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	assert.Empty(t, rec.events)
}

func TestFullRefreshFiresForEveryCell(t *testing.T) {
	d, rec := newTestDirector()
	_, root, _ := column(t, 5, 40)
	d.SetRoot(root)
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))

	rec.reset()
	d.RequestFullRefresh()
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	assert.Len(t, rec.of("visibility"), 6)

	rec.reset()
	d.RequestLayout()
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	assert.Empty(t, rec.of("visibility"), "非强制刷新且无变化时不触发")
}

func TestZeroSizedCellIsNeverVisible(t *testing.T) {
	d, _ := newTestDirector()
	tree := layout.NewTree(layout.Options{Logger: logging.Discard()})
	root := tree.NewLinear(layout.Vertical, 0)
	empty := tree.NewCell()
	require.NoError(t, root.AddChild(empty, &layout.Params{Height: 0}))
	d.SetRoot(root)
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	assert.False(t, empty.Visible())
}

func TestDegenerateViewportShowsNothing(t *testing.T) {
	d, rec := newTestDirector()
	_, root, _ := column(t, 3, 40)
	d.SetRoot(root)
	require.NoError(t, d.MeasureAndLayout(0, 0, 0, 0))

	root.Walk(func(c *layout.Cell) bool {
		assert.False(t, c.Visible(), "cell %d", c.ID())
		return true
	})
	for _, e := range rec.of("visibility") {
		assert.False(t, e.visible)
	}
}

func TestViewportCollapseHidesEverything(t *testing.T) {
	d, rec := newTestDirector()
	_, root, kids := column(t, 3, 40)
	d.SetRoot(root)
	vp := NewViewport(d)
	require.NoError(t, vp.OnResize(100, 100))
	require.True(t, kids[0].Visible())
	rec.reset()

	for _, size := range [][2]float64{{0, 100}, {100, 0}} {
		require.NoError(t, vp.OnResize(size[0], size[1]))
		root.Walk(func(c *layout.Cell) bool {
			assert.False(t, c.Visible(), "%v: cell %d", size, c.ID())
			return true
		})
	}
	var hidden []layout.ID
	for _, e := range rec.of("visibility") {
		assert.False(t, e.visible)
		hidden = append(hidden, e.id)
	}
	assert.ElementsMatch(t, []layout.ID{root.ID(), kids[0].ID(), kids[1].ID(), kids[2].ID()}, hidden,
		"只有原本可见的节点触发变化")

	require.NoError(t, vp.OnResize(100, 100))
	assert.True(t, kids[2].Visible())
}

func TestStructuralChangeTriggersLayout(t *testing.T) {
	d, rec := newTestDirector()
	tree, root, _ := column(t, 2, 40)
	d.SetRoot(root)
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	require.False(t, d.NeedsLayout())

	c := tree.NewCell()
	require.NoError(t, root.AddChild(c, &layout.Params{Height: 10}))
	assert.True(t, d.NeedsLayout())

	rec.reset()
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	assert.Equal(t, layout.Rect{X: 0, Y: 80, W: 100, H: 10}, c.Box())
	assert.True(t, c.Visible())
}

func TestMoveByScenario(t *testing.T) {
	d, rec := newTestDirector()
	_, root, kids := column(t, 5, 40)
	d.SetRoot(root)
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	rec.reset()

	dx, dy, err := d.MoveBy(root, 0, -50)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dx)
	assert.Equal(t, -50.0, dy)

	pos := rec.of("position")
	require.Len(t, pos, 4)
	for i, e := range pos {
		assert.Equal(t, kids[i].ID(), e.id)
		assert.Equal(t, e.from.Translate(0, -50), e.to)
	}
	assert.Equal(t, layout.Rect{X: 0, Y: 110, W: 100, H: 40}, kids[4].Box(), "未标记的节点同样平移")

	vis := rec.of("visibility")
	require.Len(t, vis, 2)
	assert.Equal(t, event{kind: "visibility", id: kids[0].ID(), visible: false}, vis[0])
	assert.Equal(t, event{kind: "visibility", id: kids[3].ID(), visible: true}, vis[1])

	_, sy := root.ScrollOffset()
	assert.Equal(t, -50.0, sy)

	// 平移后的矩形与重新布局结果一致
	before := kids[2].Box()
	root.ForceLayout()
	root.Layout(0, 0, 0, 0)
	assert.Equal(t, before, kids[2].Box())
}

func TestMoveByClampsToContent(t *testing.T) {
	d, _ := newTestDirector()
	_, root, kids := column(t, 5, 40)
	d.SetRoot(root)
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))

	_, dy, err := d.MoveBy(root, 0, -500)
	require.NoError(t, err)
	assert.Equal(t, -100.0, dy)
	assert.Equal(t, 60.0, kids[4].Box().Y)
	assert.True(t, kids[4].Visible())
}

func TestMoveByNoOp(t *testing.T) {
	d, rec := newTestDirector()
	_, root, kids := column(t, 2, 40)
	d.SetRoot(root)
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	rec.reset()

	for _, delta := range [][2]float64{{0, -30}, {0, 30}, {-10, 0}, {0, 0}} {
		dx, dy, err := d.MoveBy(root, delta[0], delta[1])
		require.NoError(t, err)
		assert.Zero(t, dx)
		assert.Zero(t, dy)
	}
	assert.Empty(t, rec.events)
	assert.Equal(t, layout.Rect{X: 0, Y: 40, W: 100, H: 40}, kids[1].Box())

	dx, dy, err := d.MoveBy(kids[0], 0, -10)
	require.NoError(t, err)
	assert.Zero(t, dx)
	assert.Zero(t, dy)
	_, _, err = d.MoveBy(nil, 0, -10)
	require.NoError(t, err)
}

func TestChangeRect(t *testing.T) {
	box := layout.Rect{X: 10, Y: 10, W: 100, H: 100}
	cases := []struct {
		name   string
		dx, dy float64
		want   layout.Rect
	}{
		{"up", 0, -20, layout.Rect{X: 10, Y: 10, W: 100, H: 120}},
		{"down", 0, 20, layout.Rect{X: 10, Y: -10, W: 100, H: 120}},
		{"left", -20, 0, layout.Rect{X: 10, Y: 10, W: 120, H: 100}},
		{"right", 20, 0, layout.Rect{X: -10, Y: 10, W: 120, H: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, changeRect(box, tc.dx, tc.dy))
		})
	}
}

func TestCallbacksCannotReenter(t *testing.T) {
	d := New(Options{Logger: logging.Discard()})
	tree, root, _ := column(t, 5, 40)
	d.SetRoot(root)

	var nested, mutate error
	var moveErr error
	deferred := 0
	d.AddListener(ListenerFuncs{
		LayoutComplete: func(*layout.Cell) error {
			nested = d.MeasureAndLayout(0, 0, 50, 50)
			_, _, moveErr = d.MoveBy(root, 0, -10)
			mutate = root.AddChild(tree.NewCell(), &layout.Params{Height: 10})
			d.Defer(func() {
				deferred++
				require.NoError(t, root.AddChild(tree.NewCell(), &layout.Params{Height: 10}))
			})
			return nil
		},
	})

	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))
	assert.ErrorIs(t, nested, ErrReentrant)
	assert.ErrorIs(t, moveErr, ErrReentrant)
	assert.ErrorIs(t, mutate, layout.ErrTreeBusy)
	assert.Equal(t, 1, deferred)
	assert.Equal(t, 6, root.ChildCount())
	assert.False(t, tree.Busy())
	assert.True(t, d.NeedsLayout(), "推迟的结构变化请求下一次布局")
}

func TestListenerErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	d := New(Options{Logger: logging.Discard()})
	_, root, _ := column(t, 5, 40)
	d.SetRoot(root)
	d.AddListener(ListenerFuncs{
		VisibilityChanged: func(*layout.Cell) error { return boom },
		MoveComplete:      func() error { return boom },
	})

	err := d.MeasureAndLayout(0, 0, 100, 100)
	require.ErrorIs(t, err, boom)
	assert.False(t, root.Tree().Busy(), "出错后必须解冻")

	require.ErrorIs(t, d.OnGestureComplete(), boom)
}

func TestFindByPosition(t *testing.T) {
	d, _ := newTestDirector()
	tree := layout.NewTree(layout.Options{Logger: logging.Discard()})
	root := tree.NewLinear(layout.Vertical, 0)
	header := tree.NewCell()
	row := tree.NewLinear(layout.Horizontal, 0)
	require.NoError(t, root.AddChild(header, &layout.Params{Height: 40}))
	require.NoError(t, root.AddChild(row, &layout.Params{Height: 60}))
	var items []*layout.Cell
	for i := 0; i < 2; i++ {
		c := tree.NewCell()
		items = append(items, c)
		require.NoError(t, row.AddChild(c, &layout.Params{Width: 40}))
	}

	assert.Nil(t, d.FindByPosition(10, 10), "没有根节点")
	d.SetRoot(root)
	require.NoError(t, d.MeasureAndLayout(0, 0, 100, 100))

	assert.Equal(t, header, d.FindByPosition(10, 10))
	assert.Equal(t, items[0], d.FindByPosition(10, 50))
	assert.Equal(t, items[1], d.FindByPosition(40, 50), "左边界属于右侧节点")
	assert.Equal(t, row, d.FindByPosition(90, 50), "未被子节点覆盖的区域命中容器")
	assert.Nil(t, d.FindByPosition(100, 50))

	assert.Equal(t, row, d.FindAncestorLinearGroup(items[0], layout.Horizontal))
	assert.Equal(t, root, d.FindAncestorLinearGroup(items[0], layout.Vertical))
	assert.Equal(t, row, d.FindAncestorLinearGroup(row, layout.Horizontal), "包含自身")
	assert.Nil(t, d.FindAncestorLinearGroup(header, layout.Horizontal))
}
