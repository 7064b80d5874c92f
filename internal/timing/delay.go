// Package timing computes how long each conversation step stays current
// before the next one is revealed. The calculation is pure so the controller
// can recompute it mid-flight when the speed multiplier changes.
package timing

import (
	"math"
	"strings"
	"time"

	"convoplay/internal/demo"
)

// Code blocks read slower than prose; their word count is weighted up.
const codeBlockWeight = 1.3

// Calculate returns the wall-clock display duration for a step at the given
// speed multiplier. The content-time delay (before dividing by the
// multiplier) is clamped to [MinDelayMS, MaxDelayMS]; annotation steps are
// then stretched by AnnotationMultiplier since asides need more reading time
// relative to their apparent word count.
func Calculate(step demo.Step, cfg demo.TimingSpec, multiplier float64) time.Duration {
	base := BaseDelay(step, cfg)
	if multiplier <= 0 {
		multiplier = 1
	}
	return time.Duration(float64(base) / multiplier)
}

// BaseDelay returns the content-time delay for a step, before speed scaling.
func BaseDelay(step demo.Step, cfg demo.TimingSpec) time.Duration {
	words := WordCount(step.Content)
	if step.CodeBlock != "" {
		words += int(math.Floor(float64(WordCount(step.CodeBlock)) * codeBlockWeight))
	}
	words += WordCount(step.Footnote)

	ms := words * cfg.MSPerWord
	if ms < cfg.MinDelayMS {
		ms = cfg.MinDelayMS
	}
	if ms > cfg.MaxDelayMS {
		ms = cfg.MaxDelayMS
	}
	if step.Kind == demo.StepAnnotation {
		// The epsilon keeps exact products from landing just under the
		// integer (3000*1.15 evaluates to 3449.999... in float64).
		ms = int(math.Floor(float64(ms)*cfg.AnnotationMultiplier + 1e-9))
	}
	return time.Duration(ms) * time.Millisecond
}

// UpNextDelay returns the wall-clock dwell time for the scenario-transition
// card at the given speed multiplier.
func UpNextDelay(cfg demo.TimingSpec, multiplier float64) time.Duration {
	if multiplier <= 0 {
		multiplier = 1
	}
	return time.Duration(float64(cfg.UpNextDelayMS) * float64(time.Millisecond) / multiplier)
}

// WordCount splits on whitespace. Empty strings count zero words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
