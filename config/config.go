// Package config 读取演示宿主的 YAML 配置。未出现在文件中的字段保留 Default 的取值。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Viewport 为宿主视口尺寸。
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Gesture 是一次拖动：从 Start 按下，依次移动 Moves 中的位移，然后抬起。
type Gesture struct {
	Start [2]float64   `yaml:"start"`
	Moves [][2]float64 `yaml:"moves"`
}

// Output 为输出文件路径，空字符串表示不输出。
type Output struct {
	PDF   string `yaml:"pdf"`
	Debug string `yaml:"debug"`
}

// Render 配置 PDF 帧渲染。
type Render struct {
	Scale    float64 `yaml:"scale"`
	Font     string  `yaml:"font"`
	FontSize float64 `yaml:"font_size"`
}

// Log 配置日志。
type Log struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// Config 是 render / watch 命令的全部配置。
type Config struct {
	Template     string    `yaml:"template"`
	Data         string    `yaml:"data"`
	Viewport     Viewport  `yaml:"viewport"`
	PoolCapacity int       `yaml:"pool_capacity"`
	Workers      int       `yaml:"workers"`
	Gestures     []Gesture `yaml:"gestures"`
	Output       Output    `yaml:"output"`
	Render       Render    `yaml:"render"`
	Log          Log       `yaml:"log"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		Viewport:     Viewport{Width: 1080, Height: 1920},
		PoolCapacity: 16,
		Workers:      2,
		Output:       Output{PDF: "output/frames.pdf"},
		Render:       Render{Scale: 0.25, FontSize: 9},
		Log:          Log{Level: "info", MaxSizeMB: 10},
	}
}

// Load 读取 path 并覆盖默认值。path 为空时直接返回 Default。
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse 解析 YAML 内容并覆盖默认值。未知字段视为错误。
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查取值范围。
func (c Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("视口尺寸必须为正: %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if c.PoolCapacity < 0 {
		return fmt.Errorf("pool_capacity 不能为负: %d", c.PoolCapacity)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers 不能为负: %d", c.Workers)
	}
	return nil
}
