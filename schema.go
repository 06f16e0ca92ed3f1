package main

import (
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/ByLCY/celllayout/template"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "输出 JSON 模板的 JSON Schema",
	Example: heredoc.Doc(`
		cells schema -o cells.schema.json
	`),
	Args: cobra.NoArgs,
	// 不需要模板与配置
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := template.JSONSchema()
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			return os.WriteFile(path, data, 0o644)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
