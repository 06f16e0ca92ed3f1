package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/celllayout/logging"
)

func newTestTree() *Tree { return NewTree(Options{Logger: logging.Discard()}) }

func heightParams(h float64) *Params { return &Params{Height: h} }

func TestIDsAreUniqueAndMonotonic(t *testing.T) {
	tree := newTestTree()
	seen := map[ID]bool{}
	var last ID
	for i := 0; i < 1000; i++ {
		var c *Cell
		switch i % 3 {
		case 0:
			c = tree.NewCell()
		case 1:
			c = tree.NewLinear(Vertical, 0)
		default:
			c = tree.NewGrid(2, 2, 0)
		}
		require.NotEqual(t, InvalidID, c.ID())
		require.False(t, seen[c.ID()], "重复的标识 %d", c.ID())
		require.Greater(t, c.ID(), last)
		seen[c.ID()] = true
		last = c.ID()
	}
}

func TestTreesDoNotShareCounters(t *testing.T) {
	a, b := newTestTree(), newTestTree()
	assert.Equal(t, ID(1), a.NewCell().ID())
	assert.Equal(t, ID(1), b.NewCell().ID())
}

func TestAddRemoveSymmetry(t *testing.T) {
	tree := newTestTree()
	g := tree.NewLinear(Vertical, 0)
	c := tree.NewCell()

	require.NoError(t, g.AddChild(c, heightParams(10)))
	assert.Equal(t, g, c.Parent())
	assert.Equal(t, 0, g.IndexOf(c))

	assert.True(t, g.RemoveChild(c))
	assert.Nil(t, c.Parent())
	assert.Equal(t, -1, g.IndexOf(c))
	assert.False(t, g.RemoveChild(c), "第二次移除应为 no-op")

	require.NoError(t, g.AddChild(c, heightParams(10)), "移除后允许重新挂载")
}

func TestAddChildRejections(t *testing.T) {
	tree := newTestTree()
	g := tree.NewLinear(Vertical, 0)
	other := tree.NewLinear(Horizontal, 0)
	leaf := tree.NewCell()
	require.NoError(t, other.AddChild(leaf, &Params{Width: 10}))

	cases := []struct {
		name   string
		parent *Cell
		child  *Cell
		params *Params
		want   error
	}{
		{"nil child", g, nil, heightParams(1), ErrInvalidID},
		{"zero id", g, &Cell{}, heightParams(1), ErrInvalidID},
		{"foreign tree", g, newTestTree().NewCell(), heightParams(1), ErrInvalidID},
		{"already parented", g, leaf, heightParams(1), ErrHasParent},
		{"missing params", g, tree.NewCell(), nil, ErrMissingParams},
		{"leaf parent", leaf, tree.NewCell(), heightParams(1), ErrNotGroup},
		{"self", g, g, heightParams(1), ErrCycle},
		{"same orientation", g, tree.NewLinear(Vertical, 0), heightParams(1), ErrSameOrientation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.parent.ChildCount()
			err := tc.parent.AddChild(tc.child, tc.params)
			require.ErrorIs(t, err, tc.want)
			assert.Equal(t, before, tc.parent.ChildCount(), "失败时不应部分挂载")
		})
	}
}

func TestAddAncestorIsCycle(t *testing.T) {
	tree := newTestTree()
	root := tree.NewLinear(Vertical, 0)
	row := tree.NewLinear(Horizontal, 0)
	require.NoError(t, root.AddChild(row, heightParams(10)))
	require.ErrorIs(t, row.AddChild(root, &Params{Width: 5}), ErrCycle)
	assert.Nil(t, root.Parent())
}

func TestSameOrientationNestingAlwaysFails(t *testing.T) {
	for _, o := range []Orientation{Vertical, Horizontal} {
		tree := newTestTree()
		parent := tree.NewLinear(o, 0)
		child := tree.NewLinear(o, 5)
		err := parent.AddChild(child, &Params{Width: 10, Height: 10})
		require.ErrorIs(t, err, ErrSameOrientation, o.String())
		assert.Nil(t, child.Parent())
	}
}

func TestAddChildPropagatesRelayout(t *testing.T) {
	tree := newTestTree()
	root := tree.NewLinear(Vertical, 0)
	row := tree.NewLinear(Horizontal, 0)
	require.NoError(t, root.AddChild(row, heightParams(20)))
	root.Measure(100, 100)
	root.Layout(0, 0, 0, 0)
	require.False(t, root.NeedsLayout())
	require.False(t, row.NeedsLayout())

	require.NoError(t, row.AddChild(tree.NewCell(), &Params{Width: 30}))
	assert.True(t, row.NeedsLayout())
	assert.True(t, root.NeedsLayout(), "祖先链需要重新测量")
}

func TestMeasureSkipsIdenticalConstraints(t *testing.T) {
	tree := newTestTree()
	root := tree.NewLinear(Vertical, 0)
	c := tree.NewCell()
	require.NoError(t, root.AddChild(c, heightParams(20)))
	root.Measure(100, 100)
	root.Layout(0, 0, 0, 0)

	// 直接篡改矩形：相同约束的重复调用不会覆盖。
	c.box.W = 1
	root.Measure(100, 100)
	assert.Equal(t, 1.0, c.Box().W)

	root.ForceMeasure()
	c.ForceMeasure()
	root.Measure(100, 100)
	assert.Equal(t, 100.0, c.Box().W)
}

func TestSetParamsReplacesWholeValue(t *testing.T) {
	tree := newTestTree()
	root := tree.NewLinear(Vertical, 0)
	c := tree.NewCell()
	p := Params{Height: 20, Style: "card"}
	require.NoError(t, root.AddChild(c, &p))
	p.Height = 999 // 调用方修改自己的副本不影响节点
	assert.Equal(t, 20.0, c.Params().Height)

	root.Measure(100, 100)
	root.Layout(0, 0, 0, 0)
	c.SetParams(Params{Height: 40})
	assert.True(t, root.NeedsLayout())
	root.Measure(100, 100)
	root.Layout(0, 0, 0, 0)
	assert.Equal(t, 40.0, c.Box().H)
	assert.Empty(t, c.Params().Style)
}

func TestFindByIDAndWalk(t *testing.T) {
	tree := newTestTree()
	root := tree.NewLinear(Vertical, 0)
	row := tree.NewLinear(Horizontal, 0)
	leaf := tree.NewCell()
	require.NoError(t, root.AddChild(row, heightParams(10)))
	require.NoError(t, row.AddChild(leaf, &Params{Width: 10}))

	assert.Equal(t, leaf, root.FindByID(leaf.ID()))
	assert.Equal(t, row, root.FindByID(row.ID()))
	assert.Nil(t, root.FindByID(ID(9999)))

	var order []ID
	root.Walk(func(c *Cell) bool { order = append(order, c.ID()); return true })
	assert.Equal(t, []ID{root.ID(), row.ID(), leaf.ID()}, order)

	var visited int
	complete := root.Walk(func(c *Cell) bool { visited++; return c != row })
	assert.False(t, complete)
	assert.Equal(t, 2, visited, "返回 false 后应立即停止")
}

func TestMergeUnboxesSameOrientation(t *testing.T) {
	tree := newTestTree()
	outer := tree.NewLinear(Horizontal, 0)
	a := tree.NewLinear(Vertical, 0)
	b := tree.NewLinear(Vertical, 0)
	holder := tree.NewGrid(1, 1, 0)
	require.NoError(t, outer.AddChild(a, &Params{Width: 10}))
	require.NoError(t, outer.AddChild(holder, &Params{Width: 10}))
	require.NoError(t, holder.AddChild(b, &Params{Width: 10}))

	x, y, z := tree.NewCell(), tree.NewCell(), tree.NewCell()
	require.NoError(t, a.AddChild(x, heightParams(1)))
	require.NoError(t, b.AddChild(y, heightParams(2)))
	require.NoError(t, b.AddChild(z, heightParams(3)))

	require.NoError(t, a.Merge(b))
	assert.Equal(t, []*Cell{x, y, z}, a.Children())
	assert.Equal(t, a, y.Parent())
	assert.Equal(t, 3.0, z.Params().Height, "合并保留原 Params")
	assert.Nil(t, b.Parent())
	assert.Zero(t, b.ChildCount())
	assert.Zero(t, holder.ChildCount())

	require.ErrorIs(t, a.Merge(holder), ErrNotMergeable)
	require.ErrorIs(t, a.Merge(a), ErrCycle)
}

func TestFrozenTreeRejectsMutation(t *testing.T) {
	tree := newTestTree()
	root := tree.NewLinear(Vertical, 0)
	c := tree.NewCell()
	require.NoError(t, root.AddChild(c, heightParams(10)))

	unfreeze := tree.Freeze()
	require.ErrorIs(t, root.AddChild(tree.NewCell(), heightParams(1)), ErrTreeBusy)
	assert.False(t, root.RemoveChild(c))
	assert.Equal(t, 1, root.ChildCount())
	unfreeze()

	assert.True(t, root.RemoveChild(c))
}

func TestClampScroll(t *testing.T) {
	tree := newTestTree()
	root := tree.NewLinear(Vertical, 0)
	for i := 0; i < 4; i++ {
		require.NoError(t, root.AddChild(tree.NewCell(), heightParams(50)))
	}

	// 内容 200 > 视口 100：偏移范围 [-100, 0]
	root.Measure(100, 100)
	_, dy := root.ClampScroll(0, -150)
	assert.Equal(t, -100.0, dy)
	_, dy = root.ClampScroll(0, 30)
	assert.Equal(t, 0.0, dy)
	dx, _ := root.ClampScroll(-20, 0)
	assert.Equal(t, 0.0, dx, "交叉轴内容等于自身尺寸，不可滚动")

	root.ApplyScroll(0, -60)
	_, dy = root.ClampScroll(0, -100)
	assert.Equal(t, -40.0, dy)
	_, dy = root.ClampScroll(0, 100)
	assert.Equal(t, 60.0, dy)

	// 内容不超过视口：任何增量都被夹成 0，已有偏移在重新测量时归零
	root.ForceMeasure()
	root.Measure(100, 300)
	sx, sy := root.ScrollOffset()
	assert.Equal(t, 0.0, sx)
	assert.Equal(t, 0.0, sy)
	for _, d := range []float64{-500, -1, 1, 500} {
		_, dy = root.ClampScroll(0, d)
		assert.Equal(t, 0.0, dy)
	}

	leaf := tree.NewCell()
	dx, dy = leaf.ClampScroll(10, 10)
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestLayoutComposesAncestorScroll(t *testing.T) {
	tree := newTestTree()
	root := tree.NewLinear(Vertical, 0)
	row := tree.NewLinear(Horizontal, 0)
	require.NoError(t, root.AddChild(tree.NewCell(), heightParams(80)))
	require.NoError(t, root.AddChild(row, heightParams(50)))
	var leaves []*Cell
	for i := 0; i < 3; i++ {
		c := tree.NewCell()
		leaves = append(leaves, c)
		require.NoError(t, row.AddChild(c, &Params{Width: 60}))
	}
	root.Measure(100, 100)
	root.Layout(0, 0, 0, 0)

	root.ApplyScroll(0, -30)
	row.ApplyScroll(-40, 0)
	root.ForceLayout()
	row.ForceLayout()
	root.Layout(0, 0, 0, 0)

	assert.Equal(t, Rect{X: 0, Y: 50, W: 100, H: 50}, row.Box())
	assert.Equal(t, Rect{X: 20, Y: 50, W: 60, H: 50}, leaves[1].Box())
}

func TestAncestors(t *testing.T) {
	tree := newTestTree()
	root := tree.NewLinear(Vertical, 0)
	row := tree.NewLinear(Horizontal, 0)
	leaf := tree.NewCell()
	require.NoError(t, root.AddChild(row, heightParams(10)))
	require.NoError(t, row.AddChild(leaf, &Params{Width: 10}))

	assert.Equal(t, []*Cell{row, root}, leaf.Ancestors())
	assert.Empty(t, root.Ancestors())
	assert.Equal(t, root, leaf.Root())
}
