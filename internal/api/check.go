package api

import (
	"context"

	"github.com/fentz26/papercheck/internal/models"
)

// SubmitCheck submits a check job for a paper and returns the new task id.
// There is no retry inside this call: a resubmission creates a second task on
// the server, so retrying is a deliberate caller decision.
func (c *Client) SubmitCheck(ctx context.Context, cfg models.CheckConfiguration) (string, error) {
	if cfg.PaperID == "" {
		return "", &Error{Kind: KindValidation, Message: "paper_id is required"}
	}
	if cfg.TemplateID == "" {
		return "", &Error{Kind: KindValidation, Message: "template_id is required"}
	}

	var resp struct {
		TaskID string `json:"task_id"`
	}
	if err := c.postJSON(ctx, "/check/submit", cfg, &resp); err != nil {
		return "", err
	}
	return resp.TaskID, nil
}

// GetCheckStatus fetches the current status of a check task. Idempotent;
// safe to call repeatedly. A failure here says nothing about the task itself.
func (c *Client) GetCheckStatus(ctx context.Context, taskID string) (*models.CheckTask, error) {
	var task models.CheckTask
	if err := c.get(ctx, "/check/status/"+taskID, &task); err != nil {
		return nil, err
	}
	task.TaskID = taskID
	return &task, nil
}
