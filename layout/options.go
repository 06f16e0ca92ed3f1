package layout

import "log/slog"

// Options 配置 Tree 的依赖。
type Options struct {
	// Logger 用于输出布局告警（例如主轴尺寸缺失）；为空时使用 logging.New("layout")。
	Logger *slog.Logger
}
