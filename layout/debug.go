package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将节点树快照输出为 JSON，便于调试或可视化。
func WriteDebugJSON(root *Cell, path string) error {
	if root == nil {
		return nil
	}
	data, err := json.MarshalIndent(Snap(root), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
