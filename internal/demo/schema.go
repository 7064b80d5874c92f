package demo

import (
	"fmt"
	"regexp"

	"github.com/agnivade/levenshtein"
)

const (
	DemoKind               = "demo"
	SupportedSchemaVersion = 1
)

// Step kinds. A step is a tagged union; Kind selects which fields are
// meaningful.
const (
	StepMessage    = "message"
	StepAnnotation = "annotation"
	StepTransition = "transition"
)

// Participant roles determine which side of the screen a message renders on.
const (
	RoleLeft  = "left"
	RoleRight = "right"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Demo is the top-level document: display/timing configuration plus an
// ordered, non-empty list of scenarios. It is immutable after loading; the
// playback controller only ever reads it.
type Demo struct {
	Kind          string     `yaml:"kind"`
	SchemaVersion int        `yaml:"schema_version"`
	Meta          Meta       `yaml:"meta"`
	Scenarios     []Scenario `yaml:"scenarios"`

	Path string `yaml:"-"`
}

type Meta struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	AutoAdvance bool       `yaml:"auto_advance"`
	Timing      TimingSpec `yaml:"timing"`
	Theme       ThemeSpec  `yaml:"theme"`
	Speeds      []float64  `yaml:"speeds"`
	Link        string     `yaml:"link"`
}

// TimingSpec holds the five timing knobs, all in milliseconds except the
// dimensionless annotation multiplier. Zero values are filled in by
// applyDemoDefaults.
type TimingSpec struct {
	MinDelayMS           int     `yaml:"min_delay_ms"`
	MaxDelayMS           int     `yaml:"max_delay_ms"`
	MSPerWord            int     `yaml:"ms_per_word"`
	AnnotationMultiplier float64 `yaml:"annotation_multiplier"`
	UpNextDelayMS        int     `yaml:"up_next_delay_ms"`
}

type ThemeSpec struct {
	Background  string `yaml:"background"`
	Surface     string `yaml:"surface"`
	LeftBubble  string `yaml:"left_bubble"`
	RightBubble string `yaml:"right_bubble"`
	Accent      string `yaml:"accent"`
	Text        string `yaml:"text"`
}

// Scenario is one independently playable conversation thread, rendered as a
// tab when a demo has more than one.
type Scenario struct {
	ID           string        `yaml:"id"`
	Title        string        `yaml:"title"`
	Participants []Participant `yaml:"participants"`
	Steps        []Step        `yaml:"steps"`
}

type Participant struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Role  string `yaml:"role"`
}

type Step struct {
	Kind      string `yaml:"kind"`
	From      string `yaml:"from"`
	Content   string `yaml:"content"`
	CodeBlock string `yaml:"code_block"`
	Footnote  string `yaml:"footnote"`
}

func (d Demo) Validate() error {
	if d.Kind != DemoKind {
		return fmt.Errorf("kind must be %q", DemoKind)
	}
	if d.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if d.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d (max supported %d)", d.SchemaVersion, SupportedSchemaVersion)
	}
	if d.Meta.Title == "" {
		return fmt.Errorf("meta.title is required")
	}
	if err := d.Meta.Timing.validate(); err != nil {
		return err
	}
	if err := d.Meta.Theme.validate(); err != nil {
		return err
	}
	for i, s := range d.Meta.Speeds {
		if s <= 0 {
			return fmt.Errorf("meta.speeds[%d] must be > 0", i)
		}
	}
	if len(d.Scenarios) == 0 {
		return fmt.Errorf("at least one scenario is required")
	}
	seen := map[string]struct{}{}
	for i, sc := range d.Scenarios {
		if err := sc.validate(); err != nil {
			return fmt.Errorf("scenarios[%d]: %w", i, err)
		}
		if _, ok := seen[sc.ID]; ok {
			return fmt.Errorf("duplicate scenario id %q", sc.ID)
		}
		seen[sc.ID] = struct{}{}
	}
	return nil
}

func (t TimingSpec) validate() error {
	if t.MinDelayMS < 0 || t.MaxDelayMS < 0 || t.MSPerWord < 0 || t.UpNextDelayMS < 0 {
		return fmt.Errorf("meta.timing values must be >= 0")
	}
	if t.AnnotationMultiplier < 0 {
		return fmt.Errorf("meta.timing.annotation_multiplier must be >= 0")
	}
	if t.MinDelayMS > 0 && t.MaxDelayMS > 0 && t.MinDelayMS > t.MaxDelayMS {
		return fmt.Errorf("meta.timing.min_delay_ms must be <= max_delay_ms")
	}
	return nil
}

func (th ThemeSpec) validate() error {
	fields := []struct{ name, value string }{
		{"background", th.Background},
		{"surface", th.Surface},
		{"left_bubble", th.LeftBubble},
		{"right_bubble", th.RightBubble},
		{"accent", th.Accent},
		{"text", th.Text},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if !ValidCSSColor(f.value) {
			return fmt.Errorf("meta.theme.%s: %q is not an accepted CSS color", f.name, f.value)
		}
	}
	return nil
}

func (sc Scenario) validate() error {
	if !idPattern.MatchString(sc.ID) {
		return fmt.Errorf("invalid scenario id %q", sc.ID)
	}
	if sc.Title == "" {
		return fmt.Errorf("title is required")
	}
	if len(sc.Participants) == 0 {
		return fmt.Errorf("at least one participant is required")
	}
	participants := map[string]struct{}{}
	for i, p := range sc.Participants {
		if !idPattern.MatchString(p.ID) {
			return fmt.Errorf("participants[%d]: invalid id %q", i, p.ID)
		}
		if _, ok := participants[p.ID]; ok {
			return fmt.Errorf("duplicate participant id %q", p.ID)
		}
		participants[p.ID] = struct{}{}
		if p.Label == "" {
			return fmt.Errorf("participants[%d]: label is required", i)
		}
		switch p.Role {
		case RoleLeft, RoleRight:
		default:
			return fmt.Errorf("participants[%d]: role must be %q or %q", i, RoleLeft, RoleRight)
		}
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i, st := range sc.Steps {
		if err := st.validate(participants, sc.Participants); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func (st Step) validate(ids map[string]struct{}, participants []Participant) error {
	switch st.Kind {
	case StepMessage:
		if st.From == "" {
			return fmt.Errorf("message step requires from")
		}
		if _, ok := ids[st.From]; !ok {
			if hint := closestParticipant(st.From, participants); hint != "" {
				return fmt.Errorf("unknown participant %q (did you mean %q?)", st.From, hint)
			}
			return fmt.Errorf("unknown participant %q", st.From)
		}
		if st.Content == "" {
			return fmt.Errorf("message step requires content")
		}
	case StepAnnotation, StepTransition:
		if st.Content == "" {
			return fmt.Errorf("%s step requires content", st.Kind)
		}
		if st.From != "" || st.CodeBlock != "" || st.Footnote != "" {
			return fmt.Errorf("%s step only carries content", st.Kind)
		}
	default:
		return fmt.Errorf("kind must be one of %q, %q, %q", StepMessage, StepAnnotation, StepTransition)
	}
	return nil
}

// closestParticipant suggests the participant id nearest to the unknown
// reference, within an edit distance small enough to be a plausible typo.
func closestParticipant(from string, participants []Participant) string {
	best := ""
	bestDist := 4
	for _, p := range participants {
		if d := levenshtein.ComputeDistance(from, p.ID); d < bestDist {
			best = p.ID
			bestDist = d
		}
	}
	return best
}

// ParticipantByID resolves a participant reference. Validation guarantees
// message steps resolve, so a miss returns the zero Participant.
func (sc Scenario) ParticipantByID(id string) (Participant, bool) {
	for _, p := range sc.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// ScenarioIndex returns the position of the scenario with the given id, or -1.
func (d *Demo) ScenarioIndex(id string) int {
	for i, sc := range d.Scenarios {
		if sc.ID == id {
			return i
		}
	}
	return -1
}
