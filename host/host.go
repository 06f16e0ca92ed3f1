// Package host 把模板、Director、回收管理器与帧记录器组装成一个可脚本驱动的演示宿主。
// 所有方法都必须在同一个 goroutine 上调用。
package host

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/celllayout/config"
	"github.com/ByLCY/celllayout/director"
	"github.com/ByLCY/celllayout/layout"
	"github.com/ByLCY/celllayout/logging"
	"github.com/ByLCY/celllayout/recycler"
	"github.com/ByLCY/celllayout/renderer"
	"github.com/ByLCY/celllayout/template"
)

// Options 配置 Host。
type Options struct {
	Viewport     config.Viewport
	PoolCapacity int
	// Data 为内容绑定时 ${path} 插值使用的数据，可以为 nil。
	Data   any
	Logger *slog.Logger
}

// Host 驱动一棵由模板生成的布局树，并记录每一步之后的视口帧。
type Host struct {
	viewport config.Viewport
	tree     *layout.Tree
	director *director.Director
	gestures *director.Viewport
	manager  *recycler.Manager
	factory  *renderer.Factory
	surface  *renderer.Recorder
	result   *template.Result
	frames   []renderer.Frame
	log      *slog.Logger
}

// New 创建 Host。
func New(opts Options) *Host {
	log := opts.Logger
	if log == nil {
		log = logging.New("host")
	}
	h := &Host{
		viewport: opts.Viewport,
		tree:     layout.NewTree(layout.Options{Logger: log}),
		director: director.New(director.Options{Logger: log}),
		factory:  renderer.NewFactory(nil, opts.Data),
		surface:  renderer.NewRecorder(),
		log:      log,
	}
	h.gestures = director.NewViewport(h.director)
	h.manager = recycler.NewManager(h.factory, h.surface, recycler.Options{
		Capacity: opts.PoolCapacity,
		Logger:   log,
	})
	h.director.AddListener(h.manager)
	return h
}

// Load 用 spec 构建新的布局树替换当前根节点，完成布局后记录一帧。
// 构建失败时保留原来的树。
func (h *Host) Load(spec *template.Spec) error {
	res, err := spec.Build(template.Options{
		Tree:           h.tree,
		ViewportHeight: h.viewport.Height,
		Logger:         h.log,
	})
	if err != nil {
		return err
	}
	h.result = res
	h.factory.SetResult(res)
	h.director.SetRoot(res.Root)
	if err := h.gestures.OnResize(h.viewport.Width, h.viewport.Height); err != nil {
		return fmt.Errorf("host: 布局 %s 失败: %w", res.Name, err)
	}
	h.Capture("load " + res.Name)
	h.log.Info("模板已加载", "name", res.Name, "scale", res.Scale, "bound", h.manager.BoundCount())
	return nil
}

// Play 依次执行拖动手势，每次移动与每次抬起后各记录一帧。
func (h *Host) Play(gestures []config.Gesture) error {
	if h.result == nil {
		return director.ErrNoRoot
	}
	for i, g := range gestures {
		hit := h.gestures.OnGestureBegin(g.Start[0], g.Start[1])
		if hit == nil {
			h.log.Warn("手势起点不在任何节点内", "gesture", i, "x", g.Start[0], "y", g.Start[1])
		}
		for j, m := range g.Moves {
			dx, dy, err := h.gestures.OnGestureMove(m[0], m[1])
			if err != nil {
				return fmt.Errorf("host: 手势 %d 第 %d 次移动: %w", i, j, err)
			}
			h.log.Debug("移动", "gesture", i, "dx", dx, "dy", dy)
			h.Capture(fmt.Sprintf("gesture %d move %d", i, j))
		}
		if err := h.gestures.OnGestureEnd(); err != nil {
			return fmt.Errorf("host: 手势 %d 结束: %w", i, err)
		}
		h.Capture(fmt.Sprintf("gesture %d settled", i))
	}
	return nil
}

// Capture 记录当前视口的一帧。
func (h *Host) Capture(label string) {
	h.frames = append(h.frames, h.surface.Snapshot(label, h.viewport.Width, h.viewport.Height))
}

// Frames 返回已记录的帧。
func (h *Host) Frames() []renderer.Frame { return h.frames }

// ResetFrames 清空已记录的帧。
func (h *Host) ResetFrames() { h.frames = nil }

// Result 返回当前模板的加载结果。
func (h *Host) Result() *template.Result { return h.result }

// Stats 返回视图回收统计。
func (h *Host) Stats() recycler.Stats { return h.manager.Stats() }

// WriteDebug 把当前布局树快照写入 path。
func (h *Host) WriteDebug(path string) error {
	if h.result == nil {
		return director.ErrNoRoot
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(h.director.Root(), path); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
