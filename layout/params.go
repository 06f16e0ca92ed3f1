package layout

import "fmt"

// Kind 标记节点所属的布局形态，决定 strategies 中使用哪一种测量/布局算法。
type Kind int

const (
	KindLeaf   Kind = iota // 叶子节点，不含子节点
	KindLinear             // 线性容器（水平或竖直）
	KindGrid               // 固定行列的网格容器
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "cell"
	case KindLinear:
		return "linear"
	case KindGrid:
		return "grid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Orientation 是线性容器的主轴方向，构造后不可修改。
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseOrientation 解析 "horizontal"/"vertical"（及 h/v 简写）。
func ParseOrientation(value string) (Orientation, error) {
	switch value {
	case "vertical", "v", "column":
		return Vertical, nil
	case "horizontal", "h", "row":
		return Horizontal, nil
	default:
		return Vertical, fmt.Errorf("未知的方向 %q", value)
	}
}

// GridSpec 描述网格子节点的位置与跨度。Span 小于 1 时按 1 处理。
type GridSpec struct {
	Column     int `json:"column"`
	Row        int `json:"row"`
	ColumnSpan int `json:"columnSpan"`
	RowSpan    int `json:"rowSpan"`
}

func (g GridSpec) columnSpan() int { return max(g.ColumnSpan, 1) }
func (g GridSpec) rowSpan() int    { return max(g.RowSpan, 1) }

// Params 是父容器在挂载时交给子节点的布局约束。
// Params 是不可变值：Cell 保存一份拷贝，修改约束只能通过 SetParams 整体替换。
type Params struct {
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
	Margin Edges    `json:"margin"`
	Style  string   `json:"style,omitempty"` // 渲染模板选择用的样式标识
	Grid   GridSpec `json:"grid"`
}

// main 返回主轴方向上作者指定的尺寸。
func (p Params) main(o Orientation) float64 {
	if o == Horizontal {
		return p.Width
	}
	return p.Height
}

// crossMargin 返回交叉轴方向上两侧 margin 之和。
func (p Params) crossMargin(o Orientation) float64 {
	if o == Horizontal {
		return p.Margin.Vertical()
	}
	return p.Margin.Horizontal()
}
