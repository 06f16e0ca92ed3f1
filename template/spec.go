// Package template 把 .cells DSL 或 JSON 文档转换为布局树以及 节点标识 → 数据 的映射。
//
// 加载分为两步：Parse* 只做纯计算，可以交给 taskqueue 在其他 goroutine 执行；
// Spec.Build 在持有布局树的 goroutine 上创建节点。任一步失败都不会返回部分结果。
package template

import (
	"errors"
	"fmt"
)

// Version 是唯一支持的文档版本。
const Version = "v1"

var (
	// ErrVersion 表示文档版本不受支持。
	ErrVersion = errors.New("template: 不支持的文档版本")
	// ErrNoRoot 表示文档没有声明根节点。
	ErrNoRoot = errors.New("template: 缺少根节点")
	// ErrMultipleRoots 表示文档声明了多个根节点。
	ErrMultipleRoots = errors.New("template: 只允许一个根节点")
	// ErrDuplicateName 表示两个节点使用了相同的 id 属性。
	ErrDuplicateName = errors.New("template: 节点 id 重复")
	// ErrMalformed 表示节点描述无法解析。
	ErrMalformed = errors.New("template: 节点描述非法")
)

// 节点类型标签；其他任何标签都视为叶子节点。
const (
	TypeLinear = "linear"
	TypeGrid   = "grid"
	TypeCell   = "cell"
)

// Spec 是两种前端共享的中间表示，不包含任何布局对象。
type Spec struct {
	Name    string
	Version string
	// Target 为模板设计时的目标分辨率（高度），用于缩放 rx 数值；≤ 0 表示不缩放。
	Target float64
	Meta   map[string]string
	Styles map[string]map[string]string
	Root   *NodeSpec
}

// NodeSpec 描述一个节点。
type NodeSpec struct {
	Type     string
	Attrs    map[string]string
	Data     map[string]string
	Children []*NodeSpec
	// Where 记录节点在源文件中的位置，仅用于错误信息。
	Where string
}

func (n *NodeSpec) label() string {
	if n.Where == "" {
		return n.Type
	}
	return fmt.Sprintf("%s (%s)", n.Type, n.Where)
}

func (s *Spec) validate() error {
	if s.Version != Version {
		return fmt.Errorf("%q: %w", s.Version, ErrVersion)
	}
	if s.Root == nil {
		return ErrNoRoot
	}
	return nil
}
