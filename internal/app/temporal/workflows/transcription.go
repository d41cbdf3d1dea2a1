package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
	"recorder-whisper/internal/app/temporal/activities"
)

// TranscriptionWorkflowName is the registered workflow type name.
const TranscriptionWorkflowName = "TranscriptionWorkflow"

// TranscriptionWorkflow runs one transcription job as a single activity with
// retries for transient failures.
func TranscriptionWorkflow(ctx workflow.Context, req activities.TranscriptionRequest) (activities.TranscriptionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting transcription workflow", "jobId", req.JobID)

	startTime := workflow.Now(ctx)

	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    100 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions)

	var result activities.TranscriptionResult
	err := workflow.ExecuteActivity(ctx, activities.TranscribeActivityName, req).Get(ctx, &result)
	if err != nil {
		logger.Error("Transcription activity failed", "jobId", req.JobID, "error", err)
		return activities.TranscriptionResult{JobID: req.JobID}, err
	}

	logger.Info("Transcription workflow completed",
		"jobId", req.JobID,
		"persisted", result.Persisted,
		"duration", workflow.Now(ctx).Sub(startTime))

	return result, nil
}
