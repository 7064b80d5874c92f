package timing

import (
	"strings"
	"testing"
	"time"

	"convoplay/internal/demo"
)

func defaultSpec() demo.TimingSpec {
	return demo.TimingSpec{
		MinDelayMS:           3000,
		MaxDelayMS:           8000,
		MSPerWord:            200,
		AnnotationMultiplier: 1.15,
		UpNextDelayMS:        2500,
	}
}

func TestBaseDelayClampsShortMessageToMinimum(t *testing.T) {
	step := demo.Step{Kind: demo.StepMessage, From: "a", Content: "ok"}
	if got := BaseDelay(step, defaultSpec()); got != 3*time.Second {
		t.Fatalf("one-word message: expected 3s, got %v", got)
	}
}

func TestBaseDelayClampsLongMessageToMaximum(t *testing.T) {
	step := demo.Step{Kind: demo.StepMessage, From: "a", Content: strings.Repeat("word ", 60)}
	if got := BaseDelay(step, defaultSpec()); got != 8*time.Second {
		t.Fatalf("sixty-word message: expected 8s, got %v", got)
	}
}

func TestBaseDelayScalesWithWordCount(t *testing.T) {
	step := demo.Step{Kind: demo.StepMessage, From: "a", Content: strings.Repeat("word ", 25)}
	if got := BaseDelay(step, defaultSpec()); got != 5*time.Second {
		t.Fatalf("25 words at 200ms/word: expected 5s, got %v", got)
	}
}

func TestBaseDelayWeightsCodeBlockWords(t *testing.T) {
	step := demo.Step{
		Kind:      demo.StepMessage,
		From:      "a",
		Content:   strings.Repeat("word ", 10),
		CodeBlock: strings.Repeat("tok ", 10),
	}
	// 10 prose words + floor(10*1.3)=13 code words = 23 words * 200ms.
	if got := BaseDelay(step, defaultSpec()); got != 4600*time.Millisecond {
		t.Fatalf("expected 4.6s, got %v", got)
	}
}

func TestBaseDelayCountsFootnoteWords(t *testing.T) {
	with := demo.Step{Kind: demo.StepMessage, From: "a", Content: strings.Repeat("word ", 20), Footnote: strings.Repeat("note ", 5)}
	without := demo.Step{Kind: demo.StepMessage, From: "a", Content: strings.Repeat("word ", 20)}
	if BaseDelay(with, defaultSpec()) <= BaseDelay(without, defaultSpec()) {
		t.Fatalf("footnote words should lengthen the delay")
	}
}

func TestBaseDelayStretchesAnnotations(t *testing.T) {
	step := demo.Step{Kind: demo.StepAnnotation, Content: strings.Repeat("word ", 20)}
	// 20 words * 200ms = 4000ms, then floor(4000*1.15) = 4600ms.
	if got := BaseDelay(step, defaultSpec()); got != 4600*time.Millisecond {
		t.Fatalf("expected 4.6s, got %v", got)
	}
}

func TestAnnotationMultiplierAppliesAfterClamping(t *testing.T) {
	step := demo.Step{Kind: demo.StepAnnotation, Content: "short"}
	// Clamp to 3000ms first, then stretch: floor(3000*1.15) = 3450ms.
	if got := BaseDelay(step, defaultSpec()); got != 3450*time.Millisecond {
		t.Fatalf("expected 3.45s, got %v", got)
	}
}

func TestCalculateDividesByMultiplier(t *testing.T) {
	step := demo.Step{Kind: demo.StepMessage, From: "a", Content: strings.Repeat("word ", 25)}
	if got := Calculate(step, defaultSpec(), 2); got != 2500*time.Millisecond {
		t.Fatalf("5s base at 2x: expected 2.5s, got %v", got)
	}
	if got := Calculate(step, defaultSpec(), 0.5); got != 10*time.Second {
		t.Fatalf("5s base at 0.5x: expected 10s, got %v", got)
	}
}

func TestCalculateTreatsNonPositiveMultiplierAsOne(t *testing.T) {
	step := demo.Step{Kind: demo.StepMessage, From: "a", Content: "hello"}
	if got := Calculate(step, defaultSpec(), 0); got != 3*time.Second {
		t.Fatalf("expected 3s, got %v", got)
	}
}

func TestUpNextDelayScalesWithSpeed(t *testing.T) {
	if got := UpNextDelay(defaultSpec(), 1); got != 2500*time.Millisecond {
		t.Fatalf("expected 2.5s, got %v", got)
	}
	if got := UpNextDelay(defaultSpec(), 4); got != 625*time.Millisecond {
		t.Fatalf("expected 625ms at 4x, got %v", got)
	}
}

func TestWordCountSplitsOnAnyWhitespace(t *testing.T) {
	if got := WordCount("one\ttwo\n three  "); got != 3 {
		t.Fatalf("expected 3 words, got %d", got)
	}
	if got := WordCount(""); got != 0 {
		t.Fatalf("empty string: expected 0 words, got %d", got)
	}
}
