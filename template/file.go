package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extension 是 DSL 模板文件的扩展名。
const Extension = ".cells"

// ParseFile 按扩展名选择前端：.json 使用 JSON，其余按 DSL 解析。
func ParseFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("template: 打开 %s: %w", path, err)
	}
	defer f.Close()

	var s *Spec
	if strings.EqualFold(filepath.Ext(path), ".json") {
		s, err = ParseJSON(f)
	} else {
		s, err = ParseDSL(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
