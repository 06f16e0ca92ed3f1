package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "加载模板、执行手势脚本并输出 PDF 帧",
	Example: heredoc.Doc(`
		# 使用配置文件
		cells render -c cells.yaml

		# 覆盖模板与视口尺寸
		cells render -t feed.cells --width 360 --height 640 -o out/feed.pdf
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		h, err := newHost(cfg)
		if err != nil {
			return err
		}
		if err := loadTemplate(h, cfg.Template); err != nil {
			return err
		}
		if err := h.Play(cfg.Gestures); err != nil {
			return err
		}
		if err := writeOutputs(h, cfg); err != nil {
			return err
		}
		stats := h.Stats()
		if cfg.Output.PDF != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "已生成 PDF：%s（%d 帧）\n", cfg.Output.PDF, len(h.Frames()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "视图：新建 %d，复用 %d，回收 %d，丢弃 %d\n",
			stats.Created, stats.Reused, stats.Recycled, stats.Dropped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
