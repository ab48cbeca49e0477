package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/fentz26/papercheck/internal/models"
)

// PreviousPaperList is a paged slice of the previous-years paper library.
type PreviousPaperList struct {
	Data  []models.PreviousPaper `json:"data"`
	Total int                    `json:"total"`
}

// PreviousPaperMeta describes the paper being added to the library.
type PreviousPaperMeta struct {
	Title      string
	Author     string
	Year       int
	Department string
	Keywords   []string
	Summary    string
}

// UploadPreviousPaper adds a past paper to the duplicate-detection corpus.
// Teacher role or above.
func (c *Client) UploadPreviousPaper(ctx context.Context, filePath string, meta PreviousPaperMeta) (*models.PreviousPaper, error) {
	if meta.Title == "" || meta.Author == "" || meta.Year == 0 {
		return nil, &Error{Kind: KindValidation, Message: "title, author and year are required"}
	}
	fields := map[string]string{
		"title":      meta.Title,
		"author":     meta.Author,
		"year":       strconv.Itoa(meta.Year),
		"department": meta.Department,
	}
	if len(meta.Keywords) > 0 {
		fields["keywords"] = strings.Join(meta.Keywords, ",")
	}
	if meta.Summary != "" {
		fields["summary"] = meta.Summary
	}
	var paper models.PreviousPaper
	if err := c.postFile(ctx, "/previous-papers", filePath, fields, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}

// ListPreviousPapers fetches library entries, optionally filtered by year
// and department.
func (c *Client) ListPreviousPapers(ctx context.Context, page, year int, department string) (*PreviousPaperList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	if department != "" {
		q.Set("department", department)
	}
	path := "/previous-papers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var list PreviousPaperList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPreviousPaper fetches one library entry.
func (c *Client) GetPreviousPaper(ctx context.Context, id string) (*models.PreviousPaper, error) {
	var paper models.PreviousPaper
	if err := c.get(ctx, "/previous-papers/"+id, &paper); err != nil {
		return nil, err
	}
	return &paper, nil
}

// DeletePreviousPaper removes a library entry. Teacher role or above.
func (c *Client) DeletePreviousPaper(ctx context.Context, id string) error {
	return c.delete(ctx, "/previous-papers/"+id)
}
