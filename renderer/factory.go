package renderer

import (
	"fmt"

	"github.com/ByLCY/celllayout/binding"
	"github.com/ByLCY/celllayout/layout"
	"github.com/ByLCY/celllayout/recycler"
	"github.com/ByLCY/celllayout/template"
)

// View 是演示宿主的视图对象。
type View struct {
	Serial      int
	Placeholder bool

	// 以下字段由 BindContent 写入，OnRecycled 清空。
	Cell  layout.ID
	Style string
	Text  string
}

func (v *View) String() string {
	kind := "content"
	if v.Placeholder {
		kind = "placeholder"
	}
	return fmt.Sprintf("%s#%d", kind, v.Serial)
}

// Factory 用模板加载结果创建并绑定视图：文本取节点数据中的 title（或 text），
// 并以 data 做 ${path} 插值。
type Factory struct {
	res    *template.Result
	data   any
	serial int
}

var _ recycler.ViewFactory = (*Factory)(nil)

// NewFactory 创建 Factory。data 可以为 nil。
func NewFactory(res *template.Result, data any) *Factory {
	return &Factory{res: res, data: data}
}

// SetResult 在模板重新加载后替换数据来源。
func (f *Factory) SetResult(res *template.Result) { f.res = res }

// Created 返回累计创建的视图数量。
func (f *Factory) Created() int { return f.serial }

func (f *Factory) CreatePlaceholder(*layout.Cell) recycler.View {
	f.serial++
	return &View{Serial: f.serial, Placeholder: true}
}

func (f *Factory) CreateContent(*layout.Cell) recycler.View {
	f.serial++
	return &View{Serial: f.serial}
}

func (f *Factory) BindContent(c *layout.Cell, v recycler.View) error {
	view, ok := v.(*View)
	if !ok {
		return fmt.Errorf("renderer: 未知的视图类型 %T", v)
	}
	view.Cell = c.ID()
	view.Style = f.res.StyleOf(c)
	view.Text = ""
	payload := f.res.Payload(c.ID())
	for _, key := range []string{"title", "text"} {
		if text, ok := payload[key]; ok {
			view.Text = binding.Interpolate(text, f.data)
			break
		}
	}
	return nil
}

func (f *Factory) OnRecycled(_ *layout.Cell, v recycler.View) {
	if view, ok := v.(*View); ok && !view.Placeholder {
		view.Cell, view.Style, view.Text = layout.InvalidID, "", ""
	}
}

func (f *Factory) PoolID(c *layout.Cell) recycler.PoolID {
	return recycler.StylePoolID(f.res.StyleOf(c))
}
