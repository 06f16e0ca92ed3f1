package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ByLCY/celllayout/config"
	"github.com/ByLCY/celllayout/host"
	"github.com/ByLCY/celllayout/logging"
	"github.com/ByLCY/celllayout/taskqueue"
	"github.com/ByLCY/celllayout/template"
)

const watchDebounce = 150 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "监听模板目录，文件变化时重新解析并渲染",
	Example: heredoc.Doc(`
		# 模板保存后自动重新生成 PDF
		cells watch -c cells.yaml

		# 只响应匹配的文件
		cells watch -t views/feed.cells --pattern '**/*.{cells,json}'
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		pattern, _ := cmd.Flags().GetString("pattern")
		if pattern == "" {
			pattern = filepath.Base(cfg.Template)
		}
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("无效的匹配模式: %q", pattern)
		}
		return runWatch(cmd, cfg, pattern)
	},
}

func init() {
	watchCmd.Flags().String("pattern", "", "触发重新加载的文件匹配模式（相对于模板目录，默认仅模板文件本身）")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, cfg config.Config, pattern string) error {
	log := logging.New("watch")
	ctx := cmd.Context()

	h, err := newHost(cfg)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer watcher.Close()
	dir := filepath.Dir(cfg.Template)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("监听目录失败 %s: %w", dir, err)
	}

	q := taskqueue.New(taskqueue.Options{Workers: cfg.Workers, Logger: logging.New("taskqueue")})
	if err := q.Start(ctx); err != nil {
		return err
	}
	defer q.Stop()

	submit := func(reason string) {
		path := cfg.Template
		err := q.Submit(ctx, taskqueue.Task{
			Name: reason,
			Run: func(context.Context) (any, error) {
				return template.ParseFile(path)
			},
		})
		if err != nil {
			log.Warn("提交解析任务失败", "err", err)
		}
	}
	submit("initial")
	fmt.Fprintf(cmd.OutOrStdout(), "正在监听 %s（%s）\n", dir, pattern)

	var debounce <-chan time.Time
	var pending string
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			rel, err := filepath.Rel(dir, ev.Name)
			if err != nil {
				continue
			}
			if match, _ := doublestar.Match(pattern, filepath.ToSlash(rel)); !match {
				continue
			}
			pending = rel
			debounce = time.After(watchDebounce)
		case <-debounce:
			debounce = nil
			submit(pending)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("文件监听出错", "err", err)
		case res, ok := <-q.Results():
			if !ok {
				return nil
			}
			if err := reload(h, cfg, res); err != nil {
				log.Error("重新加载失败，保留上一次的布局", "trigger", res.Name, "err", err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] 已重新生成 %s（%d 帧）\n",
				time.Now().Format(time.TimeOnly), cfg.Output.PDF, len(h.Frames()))
		}
	}
}

// reload 在持有布局树的 goroutine 上应用后台解析的结果。
func reload(h *host.Host, cfg config.Config, res taskqueue.Result) error {
	if res.Err != nil {
		return res.Err
	}
	spec, ok := res.Value.(*template.Spec)
	if !ok {
		return fmt.Errorf("解析任务返回了意外的类型 %T", res.Value)
	}
	h.ResetFrames()
	if err := h.Load(spec); err != nil {
		return err
	}
	if err := h.Play(cfg.Gestures); err != nil {
		return err
	}
	return writeOutputs(h, cfg)
}
