package workflowModel

import (
	"fmt"
	"time"
)

type WorkflowKind string
type Phase string

const (
	Summary WorkflowKind = "summary"
	Mcq     WorkflowKind = "mcq"
	Story   WorkflowKind = "story"

	PhaseIdle       Phase = "idle"
	PhaseExtracting Phase = "extracting"
	PhaseGenerating Phase = "generating"
	PhaseDone       Phase = "done"
	PhaseError      Phase = "error"
)

var AllKinds = []WorkflowKind{Summary, Mcq, Story}

func ParseKind(s string) (WorkflowKind, error) {
	for _, k := range AllKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown workflow kind %q", s)
}

// Label is the human name used in status messages.
func (k WorkflowKind) Label() string {
	switch k {
	case Summary:
		return "Summary"
	case Mcq:
		return "MCQs"
	case Story:
		return "Story Game"
	}
	return string(k)
}

func (p Phase) InFlight() bool {
	return p == PhaseExtracting || p == PhaseGenerating
}

type ProgressState struct {
	Phase         Phase     `json:"phase"`
	Percent       int       `json:"percent"`
	StatusMessage string    `json:"status_message"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func IdleState() ProgressState {
	return ProgressState{Phase: PhaseIdle, UpdatedAt: time.Now()}
}

// Artifact is the raw text the completion service returned for one workflow.
type Artifact struct {
	Kind        WorkflowKind `json:"kind"`
	Raw         string       `json:"raw"`
	GeneratedAt time.Time    `json:"generated_at"`
}

func (a *Artifact) IsEmpty() bool {
	return a == nil || a.Raw == ""
}

// ProgressFunc receives percent (0..100) and a running status line.
type ProgressFunc func(percent int, status string)

func NoProgress(int, string) {}
