package config

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"facemask/detector"
	"facemask/facemasking"
)

// Config is the facemask configuration file.
type Config struct {
	Brush    BrushConfig    `yaml:"brush"`
	Mask     MaskConfig     `yaml:"mask"`
	Detector DetectorConfig `yaml:"detector"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type BrushConfig struct {
	Width int `yaml:"width"` // 1-50
}

type MaskConfig struct {
	Policy string `yaml:"policy"` // "whole-face", "per-feature" or "outline"
	Fill   string `yaml:"fill"`   // "solid", "scratch" or "blur"
	// Tone fixes the fill gray. 0 samples it from the cheeks.
	Tone           int     `yaml:"tone"`
	Jitter         int     `yaml:"jitter"`
	Stride         int     `yaml:"stride"`
	BlurSigma      float64 `yaml:"blur_sigma"`
	ForeheadOffset float64 `yaml:"forehead_offset"`
	ForeheadRatio  float64 `yaml:"forehead_ratio"`
	Seed           int64   `yaml:"seed"` // 0 = time seeded
}

type DetectorConfig struct {
	Cascade      string  `yaml:"cascade"`
	Puploc       string  `yaml:"puploc"`
	Flploc       string  `yaml:"flploc"`
	MinSize      int     `yaml:"min_size"`
	MaxSize      int     `yaml:"max_size"`
	ShiftFactor  float64 `yaml:"shift_factor"`
	ScaleFactor  float64 `yaml:"scale_factor"`
	IouThreshold float64 `yaml:"iou_threshold"`
	QThreshold   float64 `yaml:"q_threshold"`
	Angle        float64 `yaml:"angle"`
}

type InputConfig struct {
	MaxDimension int `yaml:"max_dimension"` // 0 = keep size
}

type OutputConfig struct {
	Path string `yaml:"path"`
	SVG  string `yaml:"svg"` // optional mask outline
}

type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

// Load reads configuration from a YAML file, applies defaults and
// environment overrides, then validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.loadEnvVariables(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Println("[CONFIG]", "Config loaded from", path)
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Brush.Width == 0 {
		c.Brush.Width = facemasking.DefaultBrushWidth
	}
	if c.Mask.Policy == "" {
		c.Mask.Policy = facemasking.PolicyWholeFace.String()
	}
	if c.Mask.Fill == "" {
		c.Mask.Fill = facemasking.FillScratch.String()
	}
	if c.Mask.Jitter == 0 {
		c.Mask.Jitter = facemasking.DefaultJitter
	}
	if c.Mask.Stride == 0 {
		c.Mask.Stride = facemasking.DefaultStride
	}
	if c.Mask.BlurSigma == 0 {
		c.Mask.BlurSigma = facemasking.DefaultBlurSigma
	}
	if c.Mask.ForeheadOffset == 0 {
		c.Mask.ForeheadOffset = facemasking.DefaultForeheadOffset
	}
	if c.Detector.Cascade == "" {
		c.Detector.Cascade = "./cascade/facefinder"
	}
	if c.Output.Path == "" {
		c.Output.Path = facemasking.MaskedFilename
	}
}

func (c *Config) loadEnvVariables() error {
	if envValue := os.Getenv("FACEMASK_BRUSH_WIDTH"); envValue != "" {
		w, err := strconv.Atoi(envValue)
		if err != nil {
			return fmt.Errorf("invalid FACEMASK_BRUSH_WIDTH %q: %w", envValue, err)
		}
		c.Brush.Width = w
	}
	if envValue := os.Getenv("FACEMASK_FILL"); envValue != "" {
		c.Mask.Fill = envValue
	}
	if envValue := os.Getenv("FACEMASK_POLICY"); envValue != "" {
		c.Mask.Policy = envValue
	}
	if envValue := os.Getenv("FACEMASK_CASCADE"); envValue != "" {
		c.Detector.Cascade = envValue
	}
	return nil
}

// Validate checks value ranges and enum names.
func (c *Config) Validate() error {
	if c.Brush.Width < facemasking.MinBrushWidth || c.Brush.Width > facemasking.MaxBrushWidth {
		return fmt.Errorf("brush.width %d: %w", c.Brush.Width, facemasking.ErrBrushWidth)
	}
	if _, ok := facemasking.ParsePolicy(c.Mask.Policy); !ok {
		return fmt.Errorf("unknown mask.policy %q", c.Mask.Policy)
	}
	if _, ok := facemasking.ParseFillKind(c.Mask.Fill); !ok {
		return fmt.Errorf("unknown mask.fill %q", c.Mask.Fill)
	}
	if c.Mask.Tone < 0 || c.Mask.Tone > 255 {
		return fmt.Errorf("mask.tone %d not in [0, 255]", c.Mask.Tone)
	}
	if c.Mask.Jitter < 0 || c.Mask.Jitter > 127 {
		return fmt.Errorf("mask.jitter %d not in [0, 127]", c.Mask.Jitter)
	}
	if c.Mask.Stride < 1 {
		return fmt.Errorf("mask.stride %d must be positive", c.Mask.Stride)
	}
	if c.Mask.ForeheadRatio < 0 {
		return fmt.Errorf("mask.forehead_ratio %v must not be negative", c.Mask.ForeheadRatio)
	}
	return nil
}

// MaskOptions converts the configuration into session options. Call
// Validate first; unknown names fall back to the defaults.
func (c *Config) MaskOptions() facemasking.Options {
	opts := facemasking.DefaultOptions()
	if p, ok := facemasking.ParsePolicy(c.Mask.Policy); ok {
		opts.Region.Policy = p
	}
	opts.Region.ForeheadOffset = c.Mask.ForeheadOffset
	opts.Region.ForeheadRatio = c.Mask.ForeheadRatio
	if k, ok := facemasking.ParseFillKind(c.Mask.Fill); ok {
		opts.Fill.Kind = k
	}
	opts.Fill.Jitter = c.Mask.Jitter
	opts.Fill.Stride = c.Mask.Stride
	opts.Fill.Sigma = c.Mask.BlurSigma
	if c.Mask.Seed != 0 {
		opts.Fill.Rand = rand.New(rand.NewSource(c.Mask.Seed))
	}
	if c.Mask.Tone > 0 {
		opts.Fill.Tone = uint8(c.Mask.Tone)
		opts.SampleTone = false
	}
	opts.BrushWidth = c.Brush.Width
	return opts
}

// DetectorConfig converts the detector section for detector.New.
func (c *Config) DetectorConfig() *detector.Config {
	d := c.Detector
	return &detector.Config{
		Angle:        d.Angle,
		CascadeFile:  d.Cascade,
		MinSize:      d.MinSize,
		MaxSize:      d.MaxSize,
		ShiftFactor:  d.ShiftFactor,
		ScaleFactor:  d.ScaleFactor,
		IouThreshold: d.IouThreshold,
		QThreshold:   d.QThreshold,
		Puploc:       d.Puploc,
		Flploc:       d.Flploc,
	}
}
