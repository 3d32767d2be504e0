package grove

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	At     float64 `json:"at,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner drives a Game headlessly from a JSON script, standing in for
// the host: it owns the host clock and the observed visibility and focus.
//
// Actions: "ready", "frame" (one host frame, at "at" ms if given), "wait"
// ("frames" host frames), "hide", "show", "blur", "focus", "click", "drag",
// "screenshot".
type ScriptRunner struct {
	steps   []scriptStep
	cursor  int
	now     float64
	hidden  bool
	focused bool
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("grove: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("grove: parse script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "ready", "frame", "wait", "hide", "show", "blur", "focus", "click", "drag", "screenshot":
		default:
			return nil, fmt.Errorf("grove: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps, focused: true}, nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool { return r.cursor >= len(r.steps) }

// Now returns the host clock in milliseconds.
func (r *ScriptRunner) Now() float64 { return r.now }

// Run executes the remaining steps against g, stopping at the first error.
func (r *ScriptRunner) Run(g *Game) error {
	for !r.Done() {
		st := r.steps[r.cursor]
		r.cursor++
		if err := r.exec(g, st); err != nil {
			return fmt.Errorf("grove: script step %d (%s): %w", r.cursor-1, st.Action, err)
		}
	}
	return nil
}

func (r *ScriptRunner) exec(g *Game, st scriptStep) error {
	switch st.Action {
	case "ready":
		return g.NotifyReady()
	case "frame":
		if st.At > 0 {
			r.now = st.At
		} else {
			r.now += frameInterval(g)
		}
		return g.Advance(r.now, r.hidden, r.focused)
	case "wait":
		for i := 0; i < max(st.Frames, 1); i++ {
			r.now += frameInterval(g)
			if err := g.Advance(r.now, r.hidden, r.focused); err != nil {
				return err
			}
		}
	case "hide":
		r.hidden = true
	case "show":
		r.hidden = false
	case "blur":
		r.focused = false
	case "focus":
		r.focused = true
	case "click":
		g.Input().InjectClick(st.X, st.Y)
	case "drag":
		g.Input().InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "screenshot":
		g.Screenshot(st.Label)
	}
	return nil
}

// frameInterval is the host frame duration used when a script advances time.
func frameInterval(g *Game) float64 {
	if g.loop != nil {
		return g.loop.TargetDelta()
	}
	return 1000 / float64(g.config.FPS.Target)
}
