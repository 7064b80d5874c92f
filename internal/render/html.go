// Package render turns a validated demo into a single self-contained HTML
// document. The document carries pre-rendered step markup, a stylesheet built
// from the demo's theme, and a small runtime script that replays the steps;
// every per-step delay is computed here, by the same calculator the terminal
// preview uses, and stamped into the markup as data attributes.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sync"

	"convoplay/internal/demo"
	"convoplay/internal/playback"
	"convoplay/internal/timing"
)

type HTMLRenderer struct {
	once sync.Once
	tmpl *template.Template
	err  error
}

func NewHTMLRenderer() *HTMLRenderer { return &HTMLRenderer{} }

type documentData struct {
	Title       string
	Description string
	Theme       themeData
	Scenarios   []scenarioData
	Speeds      []float64
	ConfigJSON  template.JS
	RuntimeJS   template.JS
	QRDataURI   template.URL
	MultiTab    bool
}

// themeData carries validated colors. ValidCSSColor has already restricted
// them to safe literal forms; the template.CSS marking keeps the functional
// forms (rgb(), hsl()) from being stripped by the template's value filter.
type themeData struct {
	Background  template.CSS
	Surface     template.CSS
	LeftBubble  template.CSS
	RightBubble template.CSS
	Accent      template.CSS
	Text        template.CSS
}

type scenarioData struct {
	ID    string
	Title string
	Steps []stepData
}

type stepData struct {
	Kind        string
	Side        string
	Author      string
	Content     string
	CodeBlock   string
	Footnote    string
	BaseDelayMS int64
}

// runtimeConfig is serialized into the document for the playback script. The
// step delays themselves live on the step elements.
type runtimeConfig struct {
	AutoAdvance   bool      `json:"autoAdvance"`
	UpNextDelayMS int       `json:"upNextDelayMs"`
	FadeMS        int64     `json:"fadeMs"`
	Speeds        []float64 `json:"speeds"`
}

// Render produces the complete document.
func (r *HTMLRenderer) Render(d *demo.Demo) ([]byte, error) {
	r.once.Do(r.parse)
	if r.err != nil {
		return nil, r.err
	}

	scenarios := make([]scenarioData, 0, len(d.Scenarios))
	for _, sc := range d.Scenarios {
		sd := scenarioData{ID: sc.ID, Title: sc.Title}
		for _, st := range sc.Steps {
			step := stepData{
				Kind:        st.Kind,
				Content:     st.Content,
				CodeBlock:   st.CodeBlock,
				Footnote:    st.Footnote,
				BaseDelayMS: timing.BaseDelay(st, d.Meta.Timing).Milliseconds(),
			}
			if st.Kind == demo.StepMessage {
				p, _ := sc.ParticipantByID(st.From)
				step.Side = p.Role
				step.Author = p.Label
			}
			sd.Steps = append(sd.Steps, step)
		}
		scenarios = append(scenarios, sd)
	}

	cfg, err := json.Marshal(runtimeConfig{
		AutoAdvance:   d.Meta.AutoAdvance,
		UpNextDelayMS: d.Meta.Timing.UpNextDelayMS,
		FadeMS:        playback.FadeDuration.Milliseconds(),
		Speeds:        d.Meta.Speeds,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal runtime config: %w", err)
	}

	runtime, err := embeddedAssets.ReadFile("assets/runtime.js")
	if err != nil {
		return nil, fmt.Errorf("read runtime script: %w", err)
	}

	data := documentData{
		Title:       d.Meta.Title,
		Description: d.Meta.Description,
		Theme: themeData{
			Background:  template.CSS(d.Meta.Theme.Background),
			Surface:     template.CSS(d.Meta.Theme.Surface),
			LeftBubble:  template.CSS(d.Meta.Theme.LeftBubble),
			RightBubble: template.CSS(d.Meta.Theme.RightBubble),
			Accent:      template.CSS(d.Meta.Theme.Accent),
			Text:        template.CSS(d.Meta.Theme.Text),
		},
		Scenarios:   scenarios,
		Speeds:      d.Meta.Speeds,
		ConfigJSON:  template.JS(cfg),
		RuntimeJS:   template.JS(runtime),
		MultiTab:    len(d.Scenarios) > 1,
	}
	if d.Meta.Link != "" {
		uri, err := qrDataURI(d.Meta.Link)
		if err != nil {
			return nil, fmt.Errorf("render link qr: %w", err)
		}
		data.QRDataURI = template.URL(uri)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "document.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("execute document template: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) parse() {
	r.tmpl, r.err = template.New("root").ParseFS(embeddedAssets, "assets/*.tmpl")
}
