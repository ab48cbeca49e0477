package api

import (
	"context"

	"github.com/fentz26/papercheck/internal/models"
)

// ParameterSpec carries the writable fields of a parameter set. Zero
// thresholds are meaningful (an excellent grade usually requires zero
// issues), so creation sends every field; updates use ParameterUpdate.
type ParameterSpec struct {
	Name string `json:"name"`

	DuplicateRateThreshold float64 `json:"duplicate_rate_threshold"`

	FormatExcellentThreshold int `json:"format_excellent_threshold"`
	FormatGoodThreshold      int `json:"format_good_threshold"`
	FormatPassingThreshold   int `json:"format_passing_threshold"`
	FormatFailureThreshold   int `json:"format_failure_threshold"`

	TitleExcellentThreshold int `json:"title_excellent_threshold"`
	TitleGoodThreshold      int `json:"title_good_threshold"`
	TitlePassingThreshold   int `json:"title_passing_threshold"`
	TitleFailureThreshold   int `json:"title_failure_threshold"`

	ApplicationScope string `json:"application_scope"`
	ScopeID          string `json:"scope_id,omitempty"`
}

// ParameterUpdate carries a partial update; absent fields are left alone by
// the server, so pointers keep "unset" and "zero" apart.
type ParameterUpdate struct {
	Name                   *string  `json:"name,omitempty"`
	DuplicateRateThreshold *float64 `json:"duplicate_rate_threshold,omitempty"`

	FormatExcellentThreshold *int `json:"format_excellent_threshold,omitempty"`
	FormatGoodThreshold      *int `json:"format_good_threshold,omitempty"`
	FormatPassingThreshold   *int `json:"format_passing_threshold,omitempty"`
	FormatFailureThreshold   *int `json:"format_failure_threshold,omitempty"`

	TitleExcellentThreshold *int `json:"title_excellent_threshold,omitempty"`
	TitleGoodThreshold      *int `json:"title_good_threshold,omitempty"`
	TitlePassingThreshold   *int `json:"title_passing_threshold,omitempty"`
	TitleFailureThreshold   *int `json:"title_failure_threshold,omitempty"`

	ApplicationScope *string `json:"application_scope,omitempty"`
	ScopeID          *string `json:"scope_id,omitempty"`
}

// CreateParameter creates a parameter set. Director role or above.
func (c *Client) CreateParameter(ctx context.Context, spec ParameterSpec) (*models.Parameter, error) {
	if spec.Name == "" {
		return nil, &Error{Kind: KindValidation, Message: "name is required"}
	}
	var param models.Parameter
	if err := c.postJSON(ctx, "/parameters", spec, &param); err != nil {
		return nil, err
	}
	return &param, nil
}

// ListParameters fetches all parameter sets.
func (c *Client) ListParameters(ctx context.Context) ([]models.Parameter, error) {
	var params []models.Parameter
	if err := c.get(ctx, "/parameters", &params); err != nil {
		return nil, err
	}
	return params, nil
}

// GetParameter fetches one parameter set.
func (c *Client) GetParameter(ctx context.Context, id string) (*models.Parameter, error) {
	var param models.Parameter
	if err := c.get(ctx, "/parameters/"+id, &param); err != nil {
		return nil, err
	}
	return &param, nil
}

// UpdateParameter updates a parameter set. The server refuses the update
// with a forbidden error while the set is locked.
func (c *Client) UpdateParameter(ctx context.Context, id string, upd ParameterUpdate) (*models.Parameter, error) {
	var param models.Parameter
	if err := c.putJSON(ctx, "/parameters/"+id, upd, &param); err != nil {
		return nil, err
	}
	return &param, nil
}

// LockParameter locks a parameter set against modification. Dean role.
func (c *Client) LockParameter(ctx context.Context, id string) error {
	return c.postJSON(ctx, "/parameters/"+id+"/lock", struct{}{}, nil)
}

// UnlockParameter releases the lock. Dean role.
func (c *Client) UnlockParameter(ctx context.Context, id string) error {
	return c.postJSON(ctx, "/parameters/"+id+"/unlock", struct{}{}, nil)
}

// DeleteParameter removes a parameter set.
func (c *Client) DeleteParameter(ctx context.Context, id string) error {
	return c.delete(ctx, "/parameters/"+id)
}
