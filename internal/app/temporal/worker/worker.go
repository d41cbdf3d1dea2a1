package worker

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"recorder-whisper/internal/app/temporal/activities"
	"recorder-whisper/internal/app/temporal/workflows"
)

// Register adds the transcription workflow and activity to w.
func Register(w sdkworker.Registry, acts *activities.TranscribeActivities) {
	w.RegisterWorkflowWithOptions(workflows.TranscriptionWorkflow, workflow.RegisterOptions{
		Name: workflows.TranscriptionWorkflowName,
	})
	w.RegisterActivityWithOptions(acts.Transcribe, activity.RegisterOptions{
		Name: activities.TranscribeActivityName,
	})
}

// New creates a worker polling taskQueue with the transcription workflow
// and activity registered.
func New(c client.Client, taskQueue string, acts *activities.TranscribeActivities, maxConcurrent int) sdkworker.Worker {
	if maxConcurrent < 1 {
		maxConcurrent = 2
	}
	w := sdkworker.New(c, taskQueue, sdkworker.Options{
		MaxConcurrentActivityExecutionSize: maxConcurrent,
	})
	Register(w, acts)
	return w
}
