package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/StudyAPI/internal/adapter/utils"
	"github.com/akolanti/StudyAPI/internal/domain/workflowModel"
	"github.com/akolanti/StudyAPI/internal/pipeline/extract"
)

const pollInterval = 200 * time.Millisecond

func loadSession(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	doc, err := extract.NewDocument(utils.GetNewUUID(), filepath.Base(path), content)
	if err != nil {
		return "", err
	}
	sessionId := services.Orchestrator.CreateSession(ctx)
	if err := services.Orchestrator.SetDocument(ctx, sessionId, doc); err != nil {
		return "", err
	}
	return sessionId, nil
}

// runWorkflow runs one workflow to completion while rendering its progress.
func runWorkflow(ctx context.Context, sessionId string, kind workflowModel.WorkflowKind, run func(context.Context, string, workflowModel.WorkflowKind) (workflowModel.Artifact, error)) (workflowModel.Artifact, error) {
	view := newProgressView(kind.Label())
	defer view.stop()

	type result struct {
		artifact workflowModel.Artifact
		err      error
	}
	done := make(chan result, 1)
	go func() {
		artifact, err := run(ctx, sessionId, kind)
		done <- result{artifact: artifact, err: err}
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case r := <-done:
			if r.err != nil {
				return r.artifact, fmt.Errorf("%s: %s", kind.Label(), workflowModel.UserMessage(r.err))
			}
			return r.artifact, nil
		case <-ticker.C:
			state, err := services.Orchestrator.Progress(ctx, sessionId, kind)
			if err != nil {
				continue
			}
			switch state.Phase {
			case workflowModel.PhaseExtracting:
				view.extracting(state.Percent, state.StatusMessage)
			case workflowModel.PhaseGenerating:
				view.generating(state.StatusMessage)
			}
		}
	}
}
