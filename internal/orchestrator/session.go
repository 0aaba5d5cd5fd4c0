package orchestrator

import (
	"sync"

	"github.com/akolanti/StudyAPI/internal/domain/commonModels"
	"github.com/akolanti/StudyAPI/internal/domain/learningModel"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
)

type session struct {
	id string

	mu        sync.Mutex
	doc       commonModels.Document
	epoch     uint64
	extracted string
	workflows map[workflowModel.WorkflowKind]*workflow
}

// workflow is the per kind record. seq increases on every run request so only
// the newest run may commit.
type workflow struct {
	state    workflowModel.ProgressState
	artifact *workflowModel.Artifact
	seq      uint64

	questions []learningModel.Question
	story     *learningModel.StoryGame
}

func newSession(id string) *session {
	s := &session{
		id:        id,
		workflows: make(map[workflowModel.WorkflowKind]*workflow, len(workflowModel.AllKinds)),
	}
	for _, kind := range workflowModel.AllKinds {
		s.workflows[kind] = newWorkflow(0)
	}
	return s
}

func newWorkflow(seq uint64) *workflow {
	return &workflow{state: workflowModel.IdleState(), seq: seq}
}

func (w *workflow) clear() {
	w.artifact = nil
	w.questions = nil
	w.story = nil
}

// current reports whether a run started at (epoch, seq) may still write. Must
// be called with mu held.
func (s *session) current(kind workflowModel.WorkflowKind, epoch uint64, seq uint64) bool {
	return s.epoch == epoch && s.workflows[kind].seq == seq
}

func validKind(kind workflowModel.WorkflowKind) error {
	_, err := workflowModel.ParseKind(string(kind))
	return err
}
