package api

import (
	"context"
	"net/url"

	"github.com/fentz26/papercheck/internal/models"
)

// TemplateList is a paged list of templates.
type TemplateList struct {
	Data  []models.Template `json:"data"`
	Total int               `json:"total"`
}

// UploadTemplate uploads a new check template file.
func (c *Client) UploadTemplate(ctx context.Context, filePath, name, description string, templateType models.PaperType) (*models.Template, error) {
	fields := map[string]string{
		"name":          name,
		"template_type": string(templateType),
	}
	if description != "" {
		fields["description"] = description
	}
	var tpl models.Template
	if err := c.postFile(ctx, "/templates", filePath, fields, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// ListTemplates fetches templates, optionally filtered by type.
func (c *Client) ListTemplates(ctx context.Context, templateType models.PaperType) (*TemplateList, error) {
	path := "/templates"
	if templateType != "" {
		q := url.Values{}
		q.Set("template_type", string(templateType))
		path += "?" + q.Encode()
	}
	var list TemplateList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetTemplate fetches a single template.
func (c *Client) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	var tpl models.Template
	if err := c.get(ctx, "/templates/"+id, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// TemplateUpdate carries the mutable template fields.
type TemplateUpdate struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
}

// UpdateTemplate updates template metadata.
func (c *Client) UpdateTemplate(ctx context.Context, id string, upd TemplateUpdate) (*models.Template, error) {
	var tpl models.Template
	if err := c.putJSON(ctx, "/templates/"+id, upd, &tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// DeleteTemplate removes a template.
func (c *Client) DeleteTemplate(ctx context.Context, id string) error {
	return c.delete(ctx, "/templates/"+id)
}
