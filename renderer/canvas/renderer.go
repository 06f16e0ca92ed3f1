package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/celllayout/recycler"
	"github.com/ByLCY/celllayout/renderer"
)

const (
	strokeWidth     = 0.3
	defaultScale    = 0.25
	defaultFontSize = 9.0
	textInset       = 1.5
)

var placeholderFill = canvas.Hex("#E6E6E6")

// Renderer draws frames via github.com/tdewolff/canvas, one PDF page per frame.
type Renderer struct {
	scale    float64
	fontSize float64
	styles   map[string]map[string]string
	family   *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	// Scale converts layout units to millimetres; ≤ 0 uses 0.25.
	Scale float64
	// FontPath points to a TTF/OTF file used for view text. Text is skipped when empty.
	FontPath string
	// FontSize in points; ≤ 0 uses 9.
	FontSize float64
	// Styles maps a style name to its properties (fill, stroke as hex colors).
	Styles map[string]map[string]string
}

// NewRenderer creates a renderer. It fails only when FontPath cannot be loaded.
func NewRenderer(opts Options) (*Renderer, error) {
	r := &Renderer{
		scale:    opts.Scale,
		fontSize: opts.FontSize,
		styles:   opts.Styles,
	}
	if r.scale <= 0 {
		r.scale = defaultScale
	}
	if r.fontSize <= 0 {
		r.fontSize = defaultFontSize
	}
	if opts.FontPath != "" {
		data, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("读取字体 %s 失败: %w", opts.FontPath, err)
		}
		family := canvas.NewFontFamily("cells")
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", opts.FontPath, err)
		}
		r.family = family
	}
	return r, nil
}

// Render renders frames into a PDF byte slice.
func (r *Renderer) Render(frames []renderer.Frame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("缺少可渲染的帧")
	}

	var buf bytes.Buffer
	first := frames[0]
	writer := pdf.New(&buf, r.mm(first.Width), r.mm(first.Height), nil)
	writer.SetInfo(first.Label, "cell layout frames", "", "", "celllayout")
	for i, frame := range frames {
		w, h := r.mm(frame.Width), r.mm(frame.Height)
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("第 %d 帧尺寸非法: %gx%g", i, frame.Width, frame.Height)
		}
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		r.drawFrame(ctx, frame)
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) mm(v float64) float64 { return v * r.scale }

func (r *Renderer) drawFrame(ctx *canvas.Context, frame renderer.Frame) {
	// 背景
	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(r.mm(frame.Width), r.mm(frame.Height)))

	for _, v := range frame.Views {
		fill, stroke := r.colors(v)
		ctx.SetFillColor(fill)
		ctx.SetStrokeColor(stroke)
		ctx.SetStrokeWidth(strokeWidth)
		ctx.DrawPath(r.mm(v.Box.X), r.mm(v.Box.Y), canvas.Rectangle(r.mm(v.Box.W), r.mm(v.Box.H)))
		if !v.Placeholder {
			r.drawText(ctx, v)
		}
	}
}

// colors 优先使用样式中声明的 fill/stroke；未声明时按样式名派生一个稳定的浅色。
func (r *Renderer) colors(v renderer.ViewBox) (fill, stroke color.Color) {
	if v.Placeholder {
		return placeholderFill, canvas.Gray
	}
	props := r.styles[v.Style]
	fill = StyleColor(v.Style)
	if hex, ok := props["fill"]; ok && hex != "" {
		fill = canvas.Hex(hex)
	}
	stroke = canvas.Darkgray
	if hex, ok := props["stroke"]; ok && hex != "" {
		stroke = canvas.Hex(hex)
	}
	return fill, stroke
}

// StyleColor 由样式名派生颜色：色相取自样式的池标识，相同样式颜色一致。
func StyleColor(style string) color.Color {
	hue := float64(uint64(recycler.StylePoolID(style)) % 360)
	return colorful.Hsv(hue, 0.25, 0.97).Clamped()
}

func (r *Renderer) drawText(ctx *canvas.Context, v renderer.ViewBox) {
	if r.family == nil || v.Text == "" {
		return
	}
	face := r.family.Face(r.fontSize, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	metrics := face.Metrics()
	width := r.mm(v.Box.W) - 2*textInset
	cursorY := r.mm(v.Box.Y) + textInset
	bottom := r.mm(v.Box.Bottom())
	for _, line := range wrapText(v.Text, width, face.TextWidth) {
		if cursorY+metrics.LineHeight > bottom {
			break
		}
		ctx.DrawText(r.mm(v.Box.X)+textInset, cursorY+metrics.Ascent, canvas.NewTextLine(face, line, canvas.Left))
		cursorY += metrics.LineHeight
	}
}

// wrapText 贪心换行：优先在空白处断开，单词超过宽度时在词内拆分；显式换行始终保留。
func wrapText(content string, limit float64, measure func(string) float64) []string {
	if limit <= 0 {
		return nil
	}
	var lines []string
	var builder strings.Builder
	width := 0.0
	emit := func() {
		lines = append(lines, strings.TrimRightFunc(builder.String(), unicode.IsSpace))
		builder.Reset()
		width = 0
	}
	appendToken := func(token string, w float64) {
		if width == 0 && strings.TrimSpace(token) == "" {
			return // 行首空白
		}
		builder.WriteString(token)
		width += w
	}

	for _, token := range tokenize(content) {
		if token == "\n" {
			emit()
			continue
		}
		w := measure(token)
		if width > 0 && width+w > limit {
			emit()
		}
		if w <= limit {
			appendToken(token, w)
			continue
		}
		for _, r := range token {
			s := string(r)
			rw := measure(s)
			if width > 0 && width+rw > limit {
				emit()
			}
			appendToken(s, rw)
		}
	}
	if builder.Len() > 0 {
		emit()
	}
	return lines
}

// tokenize 把文本切分为交替的空白/非空白片段，换行单独成为一个片段。
func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() > 0 && lastWasSpace != isSpace {
			flush()
		}
		lastWasSpace = isSpace
		builder.WriteRune(r)
	}
	flush()
	return tokens
}
