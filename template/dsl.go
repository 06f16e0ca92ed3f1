package template

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ByLCY/celllayout/dsl"
	"github.com/ByLCY/celllayout/layout"
)

// ParseDSL 读取 .cells 文档并转换为 Spec。
func ParseDSL(r io.Reader) (*Spec, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("template: 解析 DSL 失败: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument 把 DSL 语法树转换为 Spec。顶层的 meta 与 style 命令分别收集为元数据和样式，
// 其余命令中必须恰好有一个节点作为根。
func FromDocument(doc *dsl.Document) (*Spec, error) {
	s := &Spec{
		Name:    doc.Name,
		Version: doc.Version,
		Meta:    map[string]string{},
		Styles:  map[string]map[string]string{},
	}
	if raw, ok := doc.Param("target"); ok {
		target, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("template: target %q: %w", raw, ErrMalformed)
		}
		s.Target = target
	}

	for _, st := range doc.Body.Statements {
		switch {
		case st.Assignment != nil:
			flattenValue(s.Meta, st.Assignment.Key, st.Assignment.Value)
		case st.Command == nil:
			continue
		case st.Command.Name == "meta":
			collectAssignments(s.Meta, st.Command.Block)
		case st.Command.Name == "style":
			if len(st.Command.Args) != 1 {
				return nil, fmt.Errorf("template: style 需要一个名称 (%s): %w", st.Command.Pos, ErrMalformed)
			}
			props := map[string]string{}
			collectAssignments(props, st.Command.Block)
			s.Styles[st.Command.Args[0].Value] = props
		default:
			if s.Root != nil {
				return nil, fmt.Errorf("template: %s: %w", st.Command.Pos, ErrMultipleRoots)
			}
			node, err := nodeFromCommand(st.Command)
			if err != nil {
				return nil, err
			}
			s.Root = node
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func nodeFromCommand(cmd *dsl.Command) (*NodeSpec, error) {
	n := &NodeSpec{
		Type:  cmd.Name,
		Attrs: map[string]string{},
		Data:  map[string]string{},
		Where: cmd.Pos.String(),
	}
	args := cmd.Args

	// 位置参数：linear 的方向、grid 的行数与列数
	switch cmd.Name {
	case TypeLinear:
		if len(args) > 0 {
			if _, err := layout.ParseOrientation(args[0].Value); err == nil {
				n.Attrs["orientation"] = args[0].Value
				args = args[1:]
			}
		}
	case TypeGrid:
		for _, key := range []string{"rows", "columns"} {
			if len(args) == 0 || args[0].Type != "Number" {
				break
			}
			n.Attrs[key] = args[0].Value
			args = args[1:]
		}
	}

	if len(args)%2 != 0 {
		return nil, fmt.Errorf("template: %s 的属性必须成对出现 (%s): %w",
			n.label(), dsl.JoinRaw(args), ErrMalformed)
	}
	for i := 0; i < len(args); i += 2 {
		n.Attrs[args[i].Value] = args[i+1].Value
	}

	if cmd.Block == nil {
		return n, nil
	}
	var texts []string
	for _, st := range cmd.Block.Statements {
		switch {
		case st.Assignment != nil:
			flattenValue(n.Data, st.Assignment.Key, st.Assignment.Value)
		case st.Text != nil:
			texts = append(texts, string(st.Text.Value))
		case st.Command != nil:
			child, err := nodeFromCommand(st.Command)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}
	if len(texts) > 0 {
		n.Data["text"] = strings.Join(texts, "\n")
	}
	return n, nil
}

func collectAssignments(dst map[string]string, block *dsl.Block) {
	if block == nil {
		return
	}
	for _, st := range block.Statements {
		if st.Assignment != nil {
			flattenValue(dst, st.Assignment.Key, st.Assignment.Value)
		}
	}
}

// flattenValue 把数组与内联对象展开为 key.0 / key.sub 形式的扁平键。
func flattenValue(dst map[string]string, key string, v *dsl.Value) {
	if text, ok := v.Text(); ok {
		dst[key] = text
		return
	}
	switch {
	case v == nil:
	case v.Array != nil:
		for i, item := range v.Array.Values {
			flattenValue(dst, key+"."+strconv.Itoa(i), item)
		}
	case v.Object != nil:
		for _, entry := range v.Object.Entries {
			flattenValue(dst, key+"."+entry.Key, entry.Value)
		}
	}
}
