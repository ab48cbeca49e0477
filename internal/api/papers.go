package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fentz26/papercheck/internal/models"
)

// ListParams are common paging/filter parameters for list endpoints.
type ListParams struct {
	Page     int
	PageSize int
	Status   string
	Type     string
}

func (p ListParams) encode() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Type != "" {
		q.Set("paper_type", p.Type)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// PaperList is a paged list of papers.
type PaperList struct {
	Data  []models.Paper `json:"data"`
	Total int            `json:"total"`
}

// UploadPaper uploads a .docx paper of the given type.
func (c *Client) UploadPaper(ctx context.Context, paperType models.PaperType, filePath, title, studentName string) (*models.Paper, error) {
	fields := map[string]string{"title": title}
	if studentName != "" {
		fields["student_name"] = studentName
	}
	var paper models.Paper
	path := fmt.Sprintf("/papers/%s", paperType)
	if err := c.postFile(ctx, path, filePath, fields, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}

// ListPapers fetches the caller's visible papers.
func (c *Client) ListPapers(ctx context.Context, params ListParams) (*PaperList, error) {
	var list PaperList
	if err := c.get(ctx, "/papers"+params.encode(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPaper fetches a single paper.
func (c *Client) GetPaper(ctx context.Context, id string) (*models.Paper, error) {
	var paper models.Paper
	if err := c.get(ctx, "/papers/"+id, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}

// DeletePaper removes a paper.
func (c *Client) DeletePaper(ctx context.Context, id string) error {
	return c.delete(ctx, "/papers/"+id)
}
