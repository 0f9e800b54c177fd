package config

import "runtime"

// Tokenizer selection values
const (
	TokenizerNaive    = "naive"
	TokenizerRelative = "relative"
)

// Default analysis thresholds. Noise/guarantee follow the classic winnowing
// settings; the relative tokenizer is the default because it is the whole
// point of the tool.
const (
	DefaultNoiseThreshold     = 15
	DefaultGuaranteeThreshold = 30

	// MaxPostingListLen bounds matcher memory: hashes whose posting list
	// grows beyond this are skipped with a warning.
	MaxPostingListLen = 10000
)

type Config struct {
	Project     Project
	Analysis    Analysis
	Performance Performance
	Include     []string
	Exclude     []string
}

type Project struct {
	Root string
}

type Analysis struct {
	Tokenizer          string
	NoiseThreshold     int // k: minimum match length in tokens
	GuaranteeThreshold int // t: matches of this length are always reported
	MaxTokenOffset     int // relative tokenizer clamp; -1 disables clamping
}

type Performance struct {
	Workers int // 0 = auto-detect (NumCPU)
}

// WindowSize returns the winnowing window w = t - k + 1.
func (a Analysis) WindowSize() int {
	return a.GuaranteeThreshold - a.NoiseThreshold + 1
}

// EffectiveWorkers resolves the worker count, defaulting to NumCPU.
func (p Performance) EffectiveWorkers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.NumCPU()
}

// Default returns the built-in configuration. Include patterns cover the
// usual assembly extensions; everything else in a project is ignored.
func Default() *Config {
	return &Config{
		Analysis: Analysis{
			Tokenizer:          TokenizerRelative,
			NoiseThreshold:     DefaultNoiseThreshold,
			GuaranteeThreshold: DefaultGuaranteeThreshold,
			MaxTokenOffset:     -1,
		},
		Performance: Performance{
			Workers: 0,
		},
		Include: []string{"**/*.s", "**/*.S", "**/*.asm", "**/*.inc"},
		Exclude: []string{},
	}
}
