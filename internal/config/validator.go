package config

import (
	"fmt"
	"strconv"

	"github.com/standardbeagle/armoss/internal/errors"
)

// Validate checks the configuration before any work starts. Violations are
// fatal: the engine never runs with out-of-range thresholds.
func Validate(cfg *Config) error {
	a := cfg.Analysis

	switch a.Tokenizer {
	case TokenizerNaive, TokenizerRelative:
	default:
		return errors.NewConfigError("tokenizer", a.Tokenizer,
			fmt.Errorf("must be %q or %q", TokenizerNaive, TokenizerRelative))
	}

	if a.NoiseThreshold < 1 {
		return errors.NewConfigError("noise", strconv.Itoa(a.NoiseThreshold),
			fmt.Errorf("must be at least 1"))
	}
	if a.GuaranteeThreshold < a.NoiseThreshold {
		return errors.NewConfigError("guarantee", strconv.Itoa(a.GuaranteeThreshold),
			fmt.Errorf("must be at least the noise threshold (%d)", a.NoiseThreshold))
	}
	if a.MaxTokenOffset < -1 {
		return errors.NewConfigError("max-offset", strconv.Itoa(a.MaxTokenOffset),
			fmt.Errorf("must be -1 (unclamped) or a non-negative clamp"))
	}
	if cfg.Performance.Workers < 0 {
		return errors.NewConfigError("workers", strconv.Itoa(cfg.Performance.Workers),
			fmt.Errorf("must be non-negative"))
	}
	return nil
}
