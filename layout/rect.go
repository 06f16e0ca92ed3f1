package layout

// Rect 是抽象坐标系中的矩形，X/Y 为左上角。
// 所有区间均为半开区间：左、上边在内，右、下边在外。
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Right 返回右边界（不含）。
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom 返回下边界（不含）。
func (r Rect) Bottom() float64 { return r.Y + r.H }

// IsEmpty 判断矩形是否退化（宽或高不为正）。
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }

// Contains 判断点 (x, y) 是否落在矩形内。
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Intersects 判断两个矩形是否重叠；任一方退化时视为不重叠，仅边相接也不算重叠。
func (r Rect) Intersects(other Rect) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Translate 返回平移 (dx, dy) 后的矩形。
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Edges 描述四边的距离（padding / margin）。
type Edges struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// EdgeAll 返回四边相同的 Edges。
func EdgeAll(v float64) Edges { return Edges{Top: v, Right: v, Bottom: v, Left: v} }

// Horizontal 返回左右之和。
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical 返回上下之和。
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

// leading/trailing 按方向取主轴前后两边。
func (e Edges) leading(o Orientation) float64 {
	if o == Horizontal {
		return e.Left
	}
	return e.Top
}

func (e Edges) trailing(o Orientation) float64 {
	if o == Horizontal {
		return e.Right
	}
	return e.Bottom
}
