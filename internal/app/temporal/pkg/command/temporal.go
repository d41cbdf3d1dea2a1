package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"recorder-whisper/internal/app/temporal/activities"
	"recorder-whisper/internal/app/temporal/workflows"
)

// Submit starts a transcription workflow for req and returns its run. An
// empty JobID is filled with a fresh uuid, which also names the workflow.
func Submit(ctx context.Context, c client.Client, taskQueue string, req activities.TranscriptionRequest) (client.WorkflowRun, error) {
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "transcription-" + req.JobID,
		TaskQueue: taskQueue,
	}, workflows.TranscriptionWorkflowName, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start transcription workflow: %w", err)
	}
	return run, nil
}

// WaitForResult blocks until the workflow run finishes.
func WaitForResult(ctx context.Context, run client.WorkflowRun) (activities.TranscriptionResult, error) {
	var result activities.TranscriptionResult
	if err := run.Get(ctx, &result); err != nil {
		return result, fmt.Errorf("transcription workflow %s failed: %w", run.GetID(), err)
	}
	return result, nil
}
