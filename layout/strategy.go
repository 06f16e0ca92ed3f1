package layout

// strategy 是某一种容器形态的测量/布局算法。
type strategy interface {
	// measure 在容器自身尺寸确定后测量所有子节点。
	measure(g *Cell)
	// layout 放置子节点；x/y 为容器未滚动坐标，scrollX/scrollY 已包含容器自身的滚动偏移。
	layout(g *Cell, x, y, scrollX, scrollY float64)
	// contentSize 返回用于滚动夹紧的内容尺寸。
	contentSize(g *Cell) (w, h float64)
}

// strategies 以 Kind 为键分发布局行为；叶子节点没有条目。
var strategies = map[Kind]strategy{
	KindLinear: linearStrategy{},
	KindGrid:   gridStrategy{},
}
