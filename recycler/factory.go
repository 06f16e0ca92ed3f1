package recycler

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zeebo/xxh3"

	"github.com/ByLCY/celllayout/layout"
)

var (
	// ErrNilView 表示 ViewFactory 的创建方法返回了 nil 句柄（包括带类型的 nil 指针），属于宿主实现错误。
	ErrNilView = errors.New("recycler: ViewFactory 返回了空视图")
	// ErrIncomparableView 表示视图句柄无法用 == 比较，不能放入池中。
	ErrIncomparableView = errors.New("recycler: 视图句柄不可比较")
)

// View 是宿主视图的不透明句柄，必须可比较，通常是指针。
type View = any

// checkView 拒绝空句柄与不可比较的句柄。
func checkView(v View) error {
	if v == nil {
		return ErrNilView
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		if rv.IsNil() {
			return ErrNilView
		}
	}
	if !rv.Type().Comparable() {
		return fmt.Errorf("%T: %w", v, ErrIncomparableView)
	}
	return nil
}

// PoolID 标识一类可互换的内容视图。
type PoolID uint64

// StylePoolID 由样式标签派生池标识；相同样式的节点共享同一个内容池。
func StylePoolID(style string) PoolID {
	return PoolID(xxh3.HashString(style))
}

// ViewFactory 由宿主实现，负责创建、绑定与回收视图。
type ViewFactory interface {
	// CreatePlaceholder 创建滚动期间显示的轻量占位视图。
	CreatePlaceholder(c *layout.Cell) View
	// CreateContent 创建完整的内容视图。
	CreateContent(c *layout.Cell) View
	// BindContent 把节点数据绑定到内容视图上。
	BindContent(c *layout.Cell, v View) error
	// OnRecycled 在视图从节点上解绑并放回池后调用。
	OnRecycled(c *layout.Cell, v View)
	// PoolID 返回节点内容视图所属的池。
	PoolID(c *layout.Cell) PoolID
}

// Surface 是宿主的视图容器。
type Surface interface {
	Attach(v View, box layout.Rect)
	Move(v View, box layout.Rect)
	Detach(v View)
}
