package renderer

import (
	"slices"

	"github.com/ByLCY/celllayout/layout"
	"github.com/ByLCY/celllayout/recycler"
)

// Recorder 是只记录视图位置的 Surface，用于生成帧快照。
type Recorder struct {
	order    []*View
	boxes    map[*View]layout.Rect
	attaches int
	moves    int
}

var _ recycler.Surface = (*Recorder)(nil)

// NewRecorder 创建空的 Recorder。
func NewRecorder() *Recorder {
	return &Recorder{boxes: map[*View]layout.Rect{}}
}

func (r *Recorder) Attach(v recycler.View, box layout.Rect) {
	view, ok := v.(*View)
	if !ok {
		return
	}
	if _, exists := r.boxes[view]; !exists {
		r.order = append(r.order, view)
	}
	r.boxes[view] = box
	r.attaches++
}

func (r *Recorder) Move(v recycler.View, box layout.Rect) {
	if view, ok := v.(*View); ok {
		if _, exists := r.boxes[view]; exists {
			r.boxes[view] = box
			r.moves++
		}
	}
}

func (r *Recorder) Detach(v recycler.View) {
	view, ok := v.(*View)
	if !ok {
		return
	}
	if _, exists := r.boxes[view]; !exists {
		return
	}
	delete(r.boxes, view)
	r.order = slices.DeleteFunc(r.order, func(o *View) bool { return o == view })
}

// Len 返回当前挂载的视图数量。
func (r *Recorder) Len() int { return len(r.order) }

// Counts 返回累计的挂载与移动次数。
func (r *Recorder) Counts() (attaches, moves int) { return r.attaches, r.moves }

// Box 返回视图当前位置。
func (r *Recorder) Box(v *View) (layout.Rect, bool) {
	box, ok := r.boxes[v]
	return box, ok
}

// Snapshot 按挂载顺序生成 width×height 视口的帧。
func (r *Recorder) Snapshot(label string, width, height float64) Frame {
	f := Frame{Label: label, Width: width, Height: height, Views: make([]ViewBox, 0, len(r.order))}
	for _, v := range r.order {
		f.Views = append(f.Views, ViewBox{
			Cell:        v.Cell,
			Placeholder: v.Placeholder,
			Style:       v.Style,
			Text:        v.Text,
			Box:         r.boxes[v],
		})
	}
	return f
}
