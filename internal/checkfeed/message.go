package checkfeed

import (
	"encoding/json"
	"fmt"

	"github.com/fentz26/papercheck/internal/models"
)

// StatusUpdate is one partial update about a check task. Every field is
// optional: a frame carries only the fields that changed, and the absent
// ones must not disturb previously known state. Pointer fields make
// "absent" and "zero" distinguishable at the decode boundary.
type StatusUpdate struct {
	Status       *models.CheckStatus `json:"status,omitempty"`
	Progress     *int                `json:"progress,omitempty"`
	CurrentStage *string             `json:"current_stage,omitempty"`
	ResultID     *string             `json:"result_id,omitempty"`
	Error        *string             `json:"error,omitempty"`
}

// Empty reports whether the update carries no fields at all.
func (u *StatusUpdate) Empty() bool {
	return u.Status == nil && u.Progress == nil && u.CurrentStage == nil &&
		u.ResultID == nil && u.Error == nil
}

var validStatuses = map[models.CheckStatus]bool{
	models.CheckStatusPending:    true,
	models.CheckStatusProcessing: true,
	models.CheckStatusCompleted:  true,
	models.CheckStatusFailed:     true,
}

// DecodeUpdate parses an inbound frame into a StatusUpdate. A frame that is
// not a JSON object, or that carries an unknown status value, is rejected
// here so malformed input never reaches the tracker.
func DecodeUpdate(data []byte) (*StatusUpdate, error) {
	var u StatusUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode update: %w", err)
	}
	if u.Status != nil && !validStatuses[*u.Status] {
		return nil, fmt.Errorf("decode update: unknown status %q", *u.Status)
	}
	return &u, nil
}

// SnapshotUpdate converts a full status-poll response into an update, so poll
// results and channel frames merge through the same path.
func SnapshotUpdate(task *models.CheckTask) StatusUpdate {
	u := StatusUpdate{
		Status:   &task.Status,
		Progress: &task.ProgressPercent,
	}
	if task.CurrentStage != "" {
		u.CurrentStage = &task.CurrentStage
	}
	if task.ResultID != "" {
		u.ResultID = &task.ResultID
	}
	if task.ErrorMessage != "" {
		u.Error = &task.ErrorMessage
	}
	return u
}
