package binding

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ByLCY/celllayout/layout"
)

var (
	// ErrUnknownAttribute 表示属性名不在映射表中。
	ErrUnknownAttribute = errors.New("binding: 未知属性")
	// ErrInvalidValue 表示属性值无法转换为目标类型。
	ErrInvalidValue = errors.New("binding: 属性值非法")
)

// Setter 把原始文本写入 target 的某个字段。
type Setter[T any] func(target *T, raw string) error

// Schema 是某类节点的属性表：属性名 → 带类型的写入函数。
// 加载器只通过它写字段，不做运行时反射。
type Schema[T any] struct {
	name    string
	setters map[string]Setter[T]
}

// NewSchema 创建名为 name 的空属性表，name 只用于错误信息。
func NewSchema[T any](name string) *Schema[T] {
	return &Schema[T]{name: name, setters: make(map[string]Setter[T])}
}

// Field 注册属性，重复注册时覆盖。返回 s 以便链式调用。
func (s *Schema[T]) Field(attr string, set Setter[T]) *Schema[T] {
	s.setters[attr] = set
	return s
}

// Has 报告属性是否已注册。
func (s *Schema[T]) Has(attr string) bool {
	_, ok := s.setters[attr]
	return ok
}

// Names 返回已注册的属性名（有序）。
func (s *Schema[T]) Names() []string {
	names := make([]string, 0, len(s.setters))
	for n := range s.setters {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Apply 把 raw 写入 target 的 attr 属性。未知属性的错误会附带最接近的候选名。
func (s *Schema[T]) Apply(target *T, attr, raw string) error {
	set, ok := s.setters[attr]
	if !ok {
		if hint := s.suggest(attr); hint != "" {
			return fmt.Errorf("%s 属性 %q（是否想写 %q?）: %w", s.name, attr, hint, ErrUnknownAttribute)
		}
		return fmt.Errorf("%s 属性 %q: %w", s.name, attr, ErrUnknownAttribute)
	}
	if err := set(target, raw); err != nil {
		return fmt.Errorf("%s 属性 %s=%q: %w", s.name, attr, raw, err)
	}
	return nil
}

func (s *Schema[T]) suggest(attr string) string {
	matches := fuzzy.Find(attr, s.Names())
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// String 返回原样写入字符串的 Setter。
func String[T any](set func(*T, string)) Setter[T] {
	return func(t *T, raw string) error {
		set(t, raw)
		return nil
	}
}

// Float 返回解析浮点数的 Setter。
func Float[T any](set func(*T, float64)) Setter[T] {
	return func(t *T, raw string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		set(t, v)
		return nil
	}
}

// Int 返回解析整数的 Setter。
func Int[T any](set func(*T, int)) Setter[T] {
	return func(t *T, raw string) error {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		set(t, v)
		return nil
	}
}

// Length 返回解析带单位长度（px/rx/%）的 Setter。
func Length[T any](set func(*T, layout.Length)) Setter[T] {
	return func(t *T, raw string) error {
		l, ok := layout.ParseRawLengthStr(strings.TrimSpace(raw))
		if !ok {
			return fmt.Errorf("%w: 长度 %q", ErrInvalidValue, raw)
		}
		set(t, l)
		return nil
	}
}

// Orientation 返回解析 vertical/horizontal 的 Setter。
func Orientation[T any](set func(*T, layout.Orientation)) Setter[T] {
	return func(t *T, raw string) error {
		o, err := layout.ParseOrientation(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		set(t, o)
		return nil
	}
}
