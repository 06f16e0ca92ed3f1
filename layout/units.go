package layout

import (
	"strconv"
	"strings"
)

// 该文件定义模板中长度值的单位，以及分辨率相关数值的缩放规则。

// Unit 表示模板中长度值的原始单位。
type Unit int

const (
	UnitPX      Unit = iota // 绝对数值，原样使用
	UnitRX                  // 分辨率相关数值，按 视口高度/目标分辨率 缩放
	UnitPercent             // 相对父容器对应尺寸的百分比
)

// UnitToString 返回单位后缀。
func UnitToString(u Unit) string {
	switch u {
	case UnitRX:
		return "rx"
	case UnitPercent:
		return "%"
	default:
		return "px"
	}
}

// Length 保存数值及其原始单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// Resolve 将长度换算为绝对数值。scale 为分辨率缩放系数（见 ResolutionScale），
// reference 为百分比的参照尺寸；参照未知时传 0，百分比结果为 0。
func (l Length) Resolve(scale, reference float64) float64 {
	switch l.Unit {
	case UnitRX:
		return l.Value * scale
	case UnitPercent:
		return l.Value / 100 * reference
	default:
		return l.Value
	}
}

// ResolutionScale 返回 视口高度 / 目标分辨率；任一值不为正时返回 1（不缩放）。
func ResolutionScale(viewportHeight, target float64) float64 {
	if viewportHeight <= 0 || target <= 0 {
		return 1
	}
	return viewportHeight / target
}

// ParseRawLengthStr 解析模板中的长度字符串，保留其单位。无法解析时返回 ok=false。
func ParseRawLengthStr(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitPX
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"rx", UnitRX}, {"px", UnitPX}, {"%", UnitPercent}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}
