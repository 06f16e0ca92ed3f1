// Package renderer 提供演示宿主：记录视图挂载状态的 Surface、基于模板数据的 ViewFactory，
// 以及把视口快照（Frame）输出为文件的 Renderer 接口。
package renderer

import "github.com/ByLCY/celllayout/layout"

// Renderer 将一组帧输出为最终文件，例如每帧一页的 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(frames []Frame) ([]byte, error)
}

// Frame 是某一时刻视口中所有已挂载视图的快照。
type Frame struct {
	Label  string
	Width  float64
	Height float64
	Views  []ViewBox
}

// ViewBox 是帧中的一个视图。
type ViewBox struct {
	Cell        layout.ID
	Placeholder bool
	Style       string
	Text        string
	Box         layout.Rect
}
