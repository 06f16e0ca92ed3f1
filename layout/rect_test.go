package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectHalfOpen(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 50}
	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(99.5, 49.5))
	assert.False(t, r.Contains(100, 10), "右边界不在矩形内")
	assert.False(t, r.Contains(10, 50), "下边界不在矩形内")
}

func TestRectIntersects(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	assert.True(t, a.Intersects(Rect{X: 50, Y: 50, W: 100, H: 100}))
	assert.False(t, a.Intersects(Rect{X: 100, Y: 0, W: 10, H: 10}), "仅边相接不算重叠")
	assert.False(t, a.Intersects(Rect{X: 10, Y: 10, W: 0, H: 10}), "退化矩形永不重叠")
	assert.False(t, Rect{}.Intersects(a))
}

func TestRectTranslate(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 3, H: 4}.Translate(-1, 10)
	assert.Equal(t, Rect{X: 0, Y: 12, W: 3, H: 4}, r)
	assert.Equal(t, 3.0, r.Right())
	assert.Equal(t, 16.0, r.Bottom())
}
