package checkfeed

import (
	"testing"

	"github.com/fentz26/papercheck/internal/models"
)

func TestDecodeUpdate(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"full frame", `{"status":"processing","progress":40,"current_stage":"比对中"}`, false},
		{"partial frame", `{"progress":10}`, false},
		{"empty object", `{}`, false},
		{"terminal frame", `{"status":"completed","progress":100,"result_id":"r1"}`, false},
		{"not json", `{{{`, true},
		{"json array", `[1,2,3]`, true},
		{"wrong field type", `{"progress":"forty"}`, true},
		{"unknown status", `{"status":"exploded"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeUpdate([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeUpdate(%s) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
		})
	}
}

func TestDecodeUpdatePreservesAbsence(t *testing.T) {
	u, err := DecodeUpdate([]byte(`{"progress":40}`))
	if err != nil {
		t.Fatalf("DecodeUpdate failed: %v", err)
	}
	if u.Progress == nil || *u.Progress != 40 {
		t.Errorf("Progress = %v, want 40", u.Progress)
	}
	if u.Status != nil || u.CurrentStage != nil || u.ResultID != nil || u.Error != nil {
		t.Error("absent fields must decode as nil, not zero values")
	}
	if u.Empty() {
		t.Error("update with progress should not be Empty")
	}
}

func TestSnapshotUpdate(t *testing.T) {
	task := &models.CheckTask{
		TaskID:          "tk1",
		Status:          models.CheckStatusProcessing,
		ProgressPercent: 55,
		CurrentStage:    "格式检查",
	}
	u := SnapshotUpdate(task)
	if u.Status == nil || *u.Status != models.CheckStatusProcessing {
		t.Errorf("Status = %v, want processing", u.Status)
	}
	if u.Progress == nil || *u.Progress != 55 {
		t.Errorf("Progress = %v, want 55", u.Progress)
	}
	if u.ResultID != nil {
		t.Error("empty result id should stay absent")
	}
	if u.Error != nil {
		t.Error("empty error should stay absent")
	}
}
