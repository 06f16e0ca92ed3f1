package recycler

import (
	"errors"
	"fmt"
)

// DefaultCapacity 是未指定容量时每个池保留的最大实例数。
const DefaultCapacity = 16

var (
	// ErrDuplicate 表示被释放的实例已经在池中。
	ErrDuplicate = errors.New("recycler: 实例已在池中")
	// ErrPoolFull 表示池已达到容量上限。
	ErrPoolFull = errors.New("recycler: 池已满")
)

// Pool 是有容量上限的后进先出对象池。T 必须可以用 == 比较；T 为接口类型时，
// 放入不可比较的动态值会在 Release 中 panic，Manager 在创建视图时已拒绝这类句柄。
type Pool[T comparable] struct {
	items    []T
	capacity int
}

// NewPool 创建容量为 capacity 的池，capacity ≤ 0 时使用 DefaultCapacity。
func NewPool[T comparable](capacity int) *Pool[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool[T]{capacity: capacity}
}

// Acquire 取出最近一次释放的实例；池为空时第二个返回值为 false。
func (p *Pool[T]) Acquire() (T, bool) {
	var zero T
	if len(p.items) == 0 {
		return zero, false
	}
	last := len(p.items) - 1
	v := p.items[last]
	p.items[last] = zero
	p.items = p.items[:last]
	return v, true
}

// Release 把实例放回池中。重复释放同一实例或超出容量时拒绝。
func (p *Pool[T]) Release(v T) error {
	for _, it := range p.items {
		if it == v {
			return fmt.Errorf("release %v: %w", v, ErrDuplicate)
		}
	}
	if len(p.items) >= p.capacity {
		return fmt.Errorf("release %v (capacity %d): %w", v, p.capacity, ErrPoolFull)
	}
	p.items = append(p.items, v)
	return nil
}

// Len 返回池中闲置实例的数量。
func (p *Pool[T]) Len() int { return len(p.items) }

// Cap 返回池容量。
func (p *Pool[T]) Cap() int { return p.capacity }
