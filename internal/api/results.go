package api

import (
	"context"

	"github.com/fentz26/papercheck/internal/models"
)

// ResultList is a paged list of check results.
type ResultList struct {
	Data  []models.Result `json:"data"`
	Total int             `json:"total"`
}

// ListResults fetches check results visible to the caller.
func (c *Client) ListResults(ctx context.Context, params ListParams) (*ResultList, error) {
	var list ResultList
	if err := c.get(ctx, "/results"+params.encode(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetResult fetches one result with its full issue list.
func (c *Client) GetResult(ctx context.Context, id string) (*models.Result, error) {
	var res models.Result
	if err := c.get(ctx, "/results/"+id, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
