package layout

// 该文件定义节点树的只读快照，供调试 JSON 与测试断言共用。

// Snapshot 记录一次测量/布局之后整棵树的几何状态。
type Snapshot struct {
	Root NodeSnapshot `json:"root"`
}

// NodeSnapshot 是单个节点的快照。
type NodeSnapshot struct {
	ID          ID             `json:"id"`
	Kind        string         `json:"kind"`
	Orientation string         `json:"orientation,omitempty"`
	Box         Rect           `json:"box"`
	Visible     bool           `json:"visible"`
	Params      Params         `json:"params"`
	Padding     Edges          `json:"padding"`
	Scroll      *ScrollState   `json:"scroll,omitempty"` // 仅容器
	Children    []NodeSnapshot `json:"children,omitempty"`
}

// ScrollState 记录容器的滚动偏移与内容尺寸。
type ScrollState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ContentW float64 `json:"contentW"`
	ContentH float64 `json:"contentH"`
}

// Snap 生成以 c 为根的快照；c 为 nil 时返回空快照。
func Snap(c *Cell) Snapshot {
	if c == nil {
		return Snapshot{}
	}
	return Snapshot{Root: snapNode(c)}
}

func snapNode(c *Cell) NodeSnapshot {
	n := NodeSnapshot{
		ID:      c.id,
		Kind:    c.kind.String(),
		Box:     c.box,
		Visible: c.visible,
		Params:  c.params,
		Padding: c.padding,
	}
	if c.kind == KindLinear {
		n.Orientation = c.orientation.String()
	}
	if c.IsGroup() {
		n.Scroll = &ScrollState{X: c.scrollX, Y: c.scrollY, ContentW: c.contentW, ContentH: c.contentH}
		n.Children = make([]NodeSnapshot, 0, len(c.children))
		for _, ch := range c.children {
			n.Children = append(n.Children, snapNode(ch))
		}
	}
	return n
}
