package layout

import (
	"math"
	"testing"
)

// TestParseRawLengthStr 覆盖 px / rx / % 三种单位以及非法输入。
func TestParseRawLengthStr(t *testing.T) {
	cases := []struct {
		in   string
		want Length
		ok   bool
	}{
		{"12", Length{Value: 12, Unit: UnitPX}, true},
		{"12px", Length{Value: 12, Unit: UnitPX}, true},
		{" 96RX ", Length{Value: 96, Unit: UnitRX}, true},
		{"50%", Length{Value: 50, Unit: UnitPercent}, true},
		{"", Length{}, false},
		{"abc", Length{}, false},
	}
	for _, c := range cases {
		got, ok := ParseRawLengthStr(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ParseRawLengthStr(%q) = %+v,%v；期望 %+v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

// TestLengthResolve 验证分辨率缩放与百分比换算。
func TestLengthResolve(t *testing.T) {
	scale := ResolutionScale(1080, 1920)
	rx := Length{Value: 192, Unit: UnitRX}
	if got := rx.Resolve(scale, 0); math.Abs(got-108) > 1e-9 {
		t.Fatalf("192rx 在 1080/1920 下期望 108，实际 %g", got)
	}
	px := Length{Value: 192, Unit: UnitPX}
	if got := px.Resolve(scale, 0); got != 192 {
		t.Fatalf("px 不应缩放，实际 %g", got)
	}
	pct := Length{Value: 25, Unit: UnitPercent}
	if got := pct.Resolve(scale, 400); got != 100 {
		t.Fatalf("25%% of 400 期望 100，实际 %g", got)
	}
}

// TestResolutionScaleDegenerate 目标分辨率或视口不为正时不缩放。
func TestResolutionScaleDegenerate(t *testing.T) {
	for _, c := range [][2]float64{{0, 1920}, {1080, 0}, {-1, -1}} {
		if got := ResolutionScale(c[0], c[1]); got != 1 {
			t.Fatalf("ResolutionScale(%g, %g) 期望 1，实际 %g", c[0], c[1], got)
		}
	}
}
