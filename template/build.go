package template

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/ByLCY/celllayout/binding"
	"github.com/ByLCY/celllayout/layout"
	"github.com/ByLCY/celllayout/logging"
)

// Options 控制 Spec.Build。
type Options struct {
	// Tree 为新节点分配标识；为空时创建新的 Tree。
	Tree *layout.Tree
	// ViewportHeight 为宿主视口高度，与 Spec.Target 一起决定 rx 数值的缩放系数。
	ViewportHeight float64
	Logger         *slog.Logger
}

// Result 是加载得到的布局树及其附带数据。
type Result struct {
	Name  string
	Tree  *layout.Tree
	Root  *layout.Cell
	Scale float64
	Meta  map[string]string
	// Styles 为样式名 → 样式属性（例如 fill/stroke 颜色）。
	Styles map[string]map[string]string
	// Payloads 为节点标识 → 节点块中的键值数据。
	Payloads map[layout.ID]map[string]string
	// Names 为 id 属性 → 节点标识。
	Names map[string]layout.ID

	rootStyle string
}

// Payload 返回节点的数据，不存在时返回 nil。
func (r *Result) Payload(id layout.ID) map[string]string { return r.Payloads[id] }

// Cell 按 id 属性查找节点。
func (r *Result) Cell(name string) *layout.Cell {
	id, ok := r.Names[name]
	if !ok {
		return nil
	}
	return r.Root.FindByID(id)
}

// StyleOf 返回节点的样式名。
func (r *Result) StyleOf(c *layout.Cell) string {
	if c == r.Root {
		return r.rootStyle
	}
	return c.Params().Style
}

// Load 解析 path 并在当前 goroutine 上构建布局树。
func Load(path string, opts Options) (*Result, error) {
	s, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return s.Build(opts)
}

// Build 按 Spec 创建布局树。失败时不返回任何部分结果。
func (s *Spec) Build(opts Options) (*Result, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logging.New("template")
	}
	tree := opts.Tree
	if tree == nil {
		tree = layout.NewTree(layout.Options{Logger: log})
	}
	b := &builder{
		scale: layout.ResolutionScale(opts.ViewportHeight, s.Target),
		tree:  tree,
		log:   log,
		res: &Result{
			Name:     s.Name,
			Tree:     tree,
			Meta:     maps.Clone(s.Meta),
			Styles:   maps.Clone(s.Styles),
			Payloads: map[layout.ID]map[string]string{},
			Names:    map[string]layout.ID{},
		},
	}
	root, a, err := b.node(s.Root)
	if err != nil {
		return nil, err
	}
	b.res.Root = root
	b.res.Scale = b.scale
	b.res.rootStyle = a.style
	log.Debug("模板加载完成", "name", s.Name, "scale", b.scale, "named", len(b.res.Names))
	return b.res, nil
}

type edgeLengths struct {
	top, right, bottom, left layout.Length
}

type attrs struct {
	id, style     string
	width, height layout.Length
	margin        edgeLengths
	padding       edgeLengths
	grid          layout.GridSpec

	orientation   layout.Orientation
	rows, columns int
	divider       layout.Length
}

func edgeFields(s *binding.Schema[attrs], name string, field func(*attrs) *edgeLengths) *binding.Schema[attrs] {
	return s.
		Field(name, binding.Length(func(a *attrs, l layout.Length) {
			*field(a) = edgeLengths{top: l, right: l, bottom: l, left: l}
		})).
		Field(name+"-top", binding.Length(func(a *attrs, l layout.Length) { field(a).top = l })).
		Field(name+"-right", binding.Length(func(a *attrs, l layout.Length) { field(a).right = l })).
		Field(name+"-bottom", binding.Length(func(a *attrs, l layout.Length) { field(a).bottom = l })).
		Field(name+"-left", binding.Length(func(a *attrs, l layout.Length) { field(a).left = l }))
}

func baseSchema(kind string) *binding.Schema[attrs] {
	s := binding.NewSchema[attrs](kind).
		Field("id", binding.String(func(a *attrs, v string) { a.id = v })).
		Field("style", binding.String(func(a *attrs, v string) { a.style = v })).
		Field("width", binding.Length(func(a *attrs, l layout.Length) { a.width = l })).
		Field("height", binding.Length(func(a *attrs, l layout.Length) { a.height = l })).
		Field("column", binding.Int(func(a *attrs, v int) { a.grid.Column = v })).
		Field("row", binding.Int(func(a *attrs, v int) { a.grid.Row = v })).
		Field("colspan", binding.Int(func(a *attrs, v int) { a.grid.ColumnSpan = v })).
		Field("rowspan", binding.Int(func(a *attrs, v int) { a.grid.RowSpan = v }))
	return edgeFields(s, "margin", func(a *attrs) *edgeLengths { return &a.margin })
}

func groupSchema(kind string) *binding.Schema[attrs] {
	s := baseSchema(kind).
		Field("divider", binding.Length(func(a *attrs, l layout.Length) { a.divider = l }))
	return edgeFields(s, "padding", func(a *attrs) *edgeLengths { return &a.padding })
}

func linearAttrs() *binding.Schema[attrs] {
	return groupSchema(TypeLinear).
		Field("orientation", binding.Orientation(func(a *attrs, o layout.Orientation) { a.orientation = o }))
}

func gridAttrs() *binding.Schema[attrs] {
	return groupSchema(TypeGrid).
		Field("rows", binding.Int(func(a *attrs, v int) { a.rows = v })).
		Field("columns", binding.Int(func(a *attrs, v int) { a.columns = v }))
}

var (
	leafSchema   = baseSchema(TypeCell)
	linearSchema = linearAttrs()
	gridSchema   = gridAttrs()
)

type builder struct {
	tree  *layout.Tree
	scale float64
	log   *slog.Logger
	res   *Result
}

func (b *builder) node(n *NodeSpec) (*layout.Cell, attrs, error) {
	schema := leafSchema
	switch n.Type {
	case TypeLinear:
		schema = linearSchema
	case TypeGrid:
		schema = gridSchema
	}
	a := attrs{rows: 1, columns: 1}
	// 按键名排序后应用：margin 先于 margin-top 等单边属性
	for _, key := range slices.Sorted(maps.Keys(n.Attrs)) {
		if err := schema.Apply(&a, key, n.Attrs[key]); err != nil {
			return nil, a, fmt.Errorf("template: %s: %w", n.label(), err)
		}
	}

	var c *layout.Cell
	switch n.Type {
	case TypeLinear:
		c = b.tree.NewLinear(a.orientation, b.length(a.divider, n, "divider"))
	case TypeGrid:
		c = b.tree.NewGrid(a.rows, a.columns, b.length(a.divider, n, "divider"))
	default:
		c = b.tree.NewCell()
	}
	if c.IsGroup() {
		c.SetPadding(b.edges(a.padding, n, "padding"))
	}

	if a.id != "" {
		if _, dup := b.res.Names[a.id]; dup {
			return nil, a, fmt.Errorf("template: %s id %q: %w", n.label(), a.id, ErrDuplicateName)
		}
		b.res.Names[a.id] = c.ID()
	}
	if len(n.Data) > 0 {
		b.res.Payloads[c.ID()] = maps.Clone(n.Data)
	}

	for _, ch := range n.Children {
		child, ca, err := b.node(ch)
		if err != nil {
			return nil, a, err
		}
		p := layout.Params{
			Width:  b.length(ca.width, ch, "width"),
			Height: b.length(ca.height, ch, "height"),
			Margin: b.edges(ca.margin, ch, "margin"),
			Style:  ca.style,
			Grid:   ca.grid,
		}
		if err := c.AddChild(child, &p); err != nil {
			return nil, a, fmt.Errorf("template: %s: %w", ch.label(), err)
		}
	}
	return c, a, nil
}

// length 把长度换算为绝对值。百分比在加载时没有参照尺寸，按 0 处理并记录警告。
func (b *builder) length(l layout.Length, n *NodeSpec, what string) float64 {
	if l.Unit == layout.UnitPercent && !l.IsZero() {
		b.log.Warn("不支持百分比长度，按 0 处理", "node", n.label(), "attr", what, "value", l.Value)
		return 0
	}
	return l.Resolve(b.scale, 0)
}

func (b *builder) edges(e edgeLengths, n *NodeSpec, what string) layout.Edges {
	return layout.Edges{
		Top:    b.length(e.top, n, what),
		Right:  b.length(e.right, n, what),
		Bottom: b.length(e.bottom, n, what),
		Left:   b.length(e.left, n, what),
	}
}
