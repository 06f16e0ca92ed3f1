package template

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/invopop/jsonschema"
)

type jsonDocument struct {
	Name    string                       `json:"name" jsonschema:"description=模板名称"`
	Version string                       `json:"version" jsonschema:"enum=v1"`
	Target  float64                      `json:"target,omitempty" jsonschema:"description=rx 长度的目标分辨率，≤ 0 时不缩放"`
	Meta    map[string]any               `json:"meta,omitempty"`
	Styles  map[string]map[string]string `json:"styles,omitempty"`
	Root    *jsonNode                    `json:"root"`
}

type jsonNode struct {
	Type     string         `json:"type" jsonschema:"description=grid、linear 或任意叶子类型名"`
	Attrs    map[string]any `json:"attrs,omitempty" jsonschema:"description=布局属性，值为字符串、数字或布尔值"`
	Data     map[string]any `json:"data,omitempty" jsonschema:"description=内容绑定使用的数据"`
	Children []*jsonNode    `json:"children,omitempty"`
}

// JSONSchema 返回 JSON 模板文档的 JSON Schema，供编辑器校验与补全。
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{}
	s := r.Reflect(&jsonDocument{})
	s.Title = "cells template"
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("template: 生成 JSON Schema 失败: %w", err)
	}
	return data, nil
}

// ParseJSON 读取 JSON 文档并转换为 Spec。属性值可以是字符串、数字或布尔值。
func ParseJSON(r io.Reader) (*Spec, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc jsonDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("template: 解析 JSON 失败: %w", err)
	}

	s := &Spec{
		Name:    doc.Name,
		Version: doc.Version,
		Target:  doc.Target,
		Meta:    map[string]string{},
		Styles:  map[string]map[string]string{},
	}
	flattenJSON(s.Meta, "", doc.Meta)
	for name, props := range doc.Styles {
		s.Styles[name] = props
	}
	if doc.Root != nil {
		root, err := nodeFromJSON(doc.Root, "root")
		if err != nil {
			return nil, err
		}
		s.Root = root
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func nodeFromJSON(j *jsonNode, where string) (*NodeSpec, error) {
	if j == nil {
		return nil, fmt.Errorf("template: %s 为 null: %w", where, ErrMalformed)
	}
	n := &NodeSpec{
		Type:  j.Type,
		Attrs: map[string]string{},
		Data:  map[string]string{},
		Where: where,
	}
	if n.Type == "" {
		n.Type = TypeCell
	}
	for key, v := range j.Attrs {
		text, ok := scalarText(v)
		if !ok {
			return nil, fmt.Errorf("template: %s 属性 %s 必须是标量: %w", n.label(), key, ErrMalformed)
		}
		n.Attrs[key] = text
	}
	flattenJSON(n.Data, "", j.Data)
	for i, c := range j.Children {
		child, err := nodeFromJSON(c, where+".children["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

func flattenJSON(dst map[string]string, prefix string, v any) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			flattenJSON(dst, join(k), t[k])
		}
	case []any:
		for i, item := range t {
			flattenJSON(dst, join(strconv.Itoa(i)), item)
		}
	default:
		if text, ok := scalarText(v); ok && prefix != "" {
			dst[prefix] = text
		}
	}
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
