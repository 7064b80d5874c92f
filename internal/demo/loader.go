package demo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Timing defaults, applied after parsing so the controller never has to
// re-resolve them.
const (
	DefaultMinDelayMS           = 3000
	DefaultMaxDelayMS           = 8000
	DefaultMSPerWord            = 200
	DefaultAnnotationMultiplier = 1.15
	DefaultUpNextDelayMS        = 2500
)

// DefaultSpeeds is the enumerated speed multiplier set offered by the
// playback controls.
var DefaultSpeeds = []float64{0.5, 1, 2, 4}

type FSLoader struct{}

func NewLoader() *FSLoader { return &FSLoader{} }

// Load reads, validates, and default-fills a single demo file.
func (l *FSLoader) Load(path string) (*Demo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// LoadDir loads every *.yaml / *.yml file directly under root, sorted by
// filename. Used by batch builds.
func (l *FSLoader) LoadDir(root string) ([]*Demo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	demos := make([]*Demo, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		d, err := l.Load(filepath.Join(root, entry.Name()))
		if err != nil {
			return nil, err
		}
		demos = append(demos, d)
	}
	if len(demos) == 0 {
		return nil, fmt.Errorf("no demo files found under %s", root)
	}
	sort.Slice(demos, func(i, j int) bool { return demos[i].Path < demos[j].Path })
	return demos, nil
}

// Parse unmarshals, validates, and applies defaults.
func Parse(b []byte) (*Demo, error) {
	var d Demo
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	applyDemoDefaults(&d)
	return &d, nil
}

func applyDemoDefaults(d *Demo) {
	t := &d.Meta.Timing
	if t.MinDelayMS <= 0 {
		t.MinDelayMS = DefaultMinDelayMS
	}
	if t.MaxDelayMS <= 0 {
		t.MaxDelayMS = DefaultMaxDelayMS
	}
	if t.MaxDelayMS < t.MinDelayMS {
		t.MaxDelayMS = t.MinDelayMS
	}
	if t.MSPerWord <= 0 {
		t.MSPerWord = DefaultMSPerWord
	}
	if t.AnnotationMultiplier <= 0 {
		t.AnnotationMultiplier = DefaultAnnotationMultiplier
	}
	if t.UpNextDelayMS <= 0 {
		t.UpNextDelayMS = DefaultUpNextDelayMS
	}
	if len(d.Meta.Speeds) == 0 {
		d.Meta.Speeds = append([]float64(nil), DefaultSpeeds...)
	}

	th := &d.Meta.Theme
	if th.Background == "" {
		th.Background = "#10141b"
	}
	if th.Surface == "" {
		th.Surface = "#1a202c"
	}
	if th.LeftBubble == "" {
		th.LeftBubble = "#2d3748"
	}
	if th.RightBubble == "" {
		th.RightBubble = "#2b6cb0"
	}
	if th.Accent == "" {
		th.Accent = "#63b3ed"
	}
	if th.Text == "" {
		th.Text = "#e2e8f0"
	}
}
