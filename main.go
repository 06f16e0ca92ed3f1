package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	_ "github.com/joho/godotenv/autoload" // 自动加载 .env 中的 CELLS_LOG_LEVEL 等变量
	"github.com/spf13/cobra"

	"github.com/ByLCY/celllayout/config"
	"github.com/ByLCY/celllayout/host"
	"github.com/ByLCY/celllayout/logging"
	canvasrenderer "github.com/ByLCY/celllayout/renderer/canvas"
	"github.com/ByLCY/celllayout/template"
)

var rootCmd = &cobra.Command{
	Use:   "cells",
	Short: "按模板构建可滚动的单元格布局，并把视口帧渲染为 PDF",
	Long: heredoc.Doc(`
		cells 读取 .cells（或 JSON）模板，构建布局树，按配置中的手势脚本滚动视口，
		并把每一步之后可见的视图渲染为 PDF 的一页。
	`),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logging.SetLevel(cfg.Log.Level)
		if cfg.Log.File != "" {
			restore := logging.ToFile(logging.FileOptions{Path: cfg.Log.File, MaxSizeMB: cfg.Log.MaxSizeMB})
			cobra.OnFinalize(func() { _ = restore() })
		}
		cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
		return nil
	},
}

type configKey struct{}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "YAML 配置文件")
	flags.StringP("template", "t", "", "模板文件（.cells 或 .json），覆盖配置")
	flags.String("data", "", "内容绑定使用的 JSON 数据文件，覆盖配置")
	flags.Float64("width", 0, "视口宽度，覆盖配置")
	flags.Float64("height", 0, "视口高度，覆盖配置")
	flags.StringP("out", "o", "", "PDF 输出路径，覆盖配置")
	flags.String("debug", "", "布局调试 JSON 输出路径，覆盖配置")
	flags.String("log-level", "", "日志级别（debug/info/warn/error），覆盖配置")
	flags.String("log-file", "", "日志文件（按大小滚动），覆盖配置")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig 读取配置文件并用命令行参数覆盖。
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	overrideString := func(name string, dst *string) {
		if v, _ := flags.GetString(name); flags.Changed(name) {
			*dst = v
		}
	}
	overrideString("template", &cfg.Template)
	overrideString("data", &cfg.Data)
	overrideString("out", &cfg.Output.PDF)
	overrideString("debug", &cfg.Output.Debug)
	overrideString("log-level", &cfg.Log.Level)
	overrideString("log-file", &cfg.Log.File)
	if v, _ := flags.GetFloat64("width"); flags.Changed("width") {
		cfg.Viewport.Width = v
	}
	if v, _ := flags.GetFloat64("height"); flags.Changed("height") {
		cfg.Viewport.Height = v
	}
	if cfg.Template == "" {
		return cfg, fmt.Errorf("缺少模板文件：使用 --template 或在配置中设置 template")
	}
	return cfg, cfg.Validate()
}

func configFrom(cmd *cobra.Command) config.Config {
	cfg, _ := cmd.Context().Value(configKey{}).(config.Config)
	return cfg
}

func readData(path string) (any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取数据文件失败: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析数据 JSON 失败: %w", err)
	}
	return data, nil
}

func newHost(cfg config.Config) (*host.Host, error) {
	data, err := readData(cfg.Data)
	if err != nil {
		return nil, err
	}
	return host.New(host.Options{
		Viewport:     cfg.Viewport,
		PoolCapacity: cfg.PoolCapacity,
		Data:         data,
		Logger:       logging.New("host"),
	}), nil
}

// writeOutputs 把已记录的帧渲染为 PDF，并按需输出调试 JSON。
func writeOutputs(h *host.Host, cfg config.Config) error {
	if cfg.Output.Debug != "" {
		if err := h.WriteDebug(cfg.Output.Debug); err != nil {
			return err
		}
	}
	if cfg.Output.PDF == "" {
		return nil
	}
	r, err := canvasrenderer.NewRenderer(canvasrenderer.Options{
		Scale:    cfg.Render.Scale,
		FontPath: cfg.Render.Font,
		FontSize: cfg.Render.FontSize,
		Styles:   h.Result().Styles,
	})
	if err != nil {
		return err
	}
	pdfBytes, err := r.Render(h.Frames())
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Output.PDF), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(cfg.Output.PDF, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func loadTemplate(h *host.Host, path string) error {
	spec, err := template.ParseFile(path)
	if err != nil {
		return err
	}
	return h.Load(spec)
}
