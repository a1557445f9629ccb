package observ

import (
	"fmt"
	"io"
	"time"
)

// Phase is one timed step of a conversion.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records conversion phases in the order they start. A nil *Timer
// is valid and records nothing, so callers time unconditionally.
// Not safe for concurrent use.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin opens a phase and returns its handle; -1 on a nil Timer.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase; unknown handles are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport: фаза в сериализуемом виде.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report sums the phases; nested phases would be counted twice, the
// driver never nests them.
func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	r := Report{Phases: make([]PhaseReport, 0, len(t.phases))}
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = millis(total)
	return r
}

// WriteText prints one aligned row per phase plus a total row.
func (r Report) WriteText(w io.Writer) error {
	for _, p := range r.Phases {
		var err error
		if p.Note != "" {
			_, err = fmt.Fprintf(w, "%-8s %7.2f ms  (%s)\n", p.Name, p.DurationMS, p.Note)
		} else {
			_, err = fmt.Fprintf(w, "%-8s %7.2f ms\n", p.Name, p.DurationMS)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%-8s %7.2f ms\n", "total", r.TotalMS)
	return err
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
