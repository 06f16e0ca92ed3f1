package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineSizes(g *GridLines) []int {
	var out []int
	for _, line := range g.Root().Children() {
		out = append(out, line.ChildCount())
	}
	return out
}

func TestGridLinesGrowAndShrink(t *testing.T) {
	tree := newTestTree()
	var created []int
	g := NewGridLines(tree, Vertical, 3, 40, 0, func(i int) *Cell {
		created = append(created, i)
		return tree.NewCell()
	})

	require.NoError(t, g.SetCount(7))
	assert.Equal(t, 7, g.Count())
	assert.Equal(t, []int{3, 3, 1}, lineSizes(g))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, created)

	item6 := g.Item(6)
	require.NoError(t, g.SetCount(8), "最后一行有空位时直接填充")
	assert.Equal(t, []int{3, 3, 2}, lineSizes(g))
	assert.Equal(t, item6, g.Item(6), "增长不应重建已有条目")

	require.NoError(t, g.SetCount(4))
	assert.Equal(t, []int{3, 1}, lineSizes(g))
	assert.Nil(t, g.Item(4))

	require.NoError(t, g.SetCount(0))
	assert.Empty(t, lineSizes(g))
	assert.Zero(t, g.Count())
}

func TestGridLinesGeometry(t *testing.T) {
	tree := newTestTree()
	g := NewGridLines(tree, Vertical, 3, 40, 0, nil)
	require.NoError(t, g.SetCount(5))

	root := g.Root()
	root.Measure(90, 400)
	root.Layout(0, 0, 0, 0)

	assert.Equal(t, Rect{X: 30, Y: 40, W: 30, H: 40}, g.Item(4).Box())
	_, contentH := root.ContentSize()
	assert.Equal(t, 80.0, contentH)
}

func TestGridLinesHorizontal(t *testing.T) {
	tree := newTestTree()
	g := NewGridLines(tree, Horizontal, 2, 25, 0, nil)
	require.NoError(t, g.SetCount(3))

	root := g.Root()
	root.Measure(100, 60)
	root.Layout(0, 0, 0, 0)

	assert.Equal(t, Rect{X: 0, Y: 30, W: 25, H: 30}, g.Item(1).Box())
	assert.Equal(t, Rect{X: 25, Y: 0, W: 25, H: 30}, g.Item(2).Box())
}
