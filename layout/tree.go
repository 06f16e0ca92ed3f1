package layout

import (
	"log/slog"
	"sync/atomic"

	"github.com/ByLCY/celllayout/logging"
)

// ID 是 Cell 的唯一标识，由所属 Tree 单调递增分配。0 为非法值。
type ID int64

// InvalidID 表示未由 Tree 分配的标识。
const InvalidID ID = 0

// Tree 持有标识生成器与冻结状态，是一棵（或多棵）节点树的拥有者上下文。
// 同一 Tree 创建的 Cell 标识互不相同；不同 Tree 之间互不影响，避免测试间串扰。
type Tree struct {
	next atomic.Int64
	busy int
	log  *slog.Logger
}

// NewTree 创建一个新的 Tree。
func NewTree(opts Options) *Tree {
	t := &Tree{log: opts.Logger}
	if t.log == nil {
		t.log = logging.New("layout")
	}
	return t
}

func (t *Tree) nextID() ID { return ID(t.next.Add(1)) }

func (t *Tree) newNode(kind Kind) *Cell {
	return &Cell{id: t.nextID(), kind: kind, tree: t}
}

// NewCell 创建叶子节点。
func (t *Tree) NewCell() *Cell { return t.newNode(KindLeaf) }

// NewLinear 创建线性容器，方向在构造后固定。
func (t *Tree) NewLinear(o Orientation, divider float64) *Cell {
	c := t.newNode(KindLinear)
	c.orientation = o
	c.divider = max(divider, 0)
	return c
}

// NewGrid 创建 rows×columns 的网格容器，行列数小于 1 时按 1 处理。
func (t *Tree) NewGrid(rows, columns int, divider float64) *Cell {
	c := t.newNode(KindGrid)
	c.rows = max(rows, 1)
	c.columns = max(columns, 1)
	c.divider = max(divider, 0)
	return c
}

// Freeze 冻结结构修改，返回解冻函数。冻结期间 AddChild/RemoveChild/Merge 会被拒绝。
// 可以嵌套调用。
func (t *Tree) Freeze() (unfreeze func()) {
	t.busy++
	return func() { t.busy-- }
}

// Busy 报告当前是否处于冻结状态。
func (t *Tree) Busy() bool { return t != nil && t.busy > 0 }

func (t *Tree) logger() *slog.Logger {
	if t == nil || t.log == nil {
		return logging.New("layout")
	}
	return t.log
}
