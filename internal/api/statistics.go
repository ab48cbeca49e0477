package api

import "context"

// OverviewStats is the service-wide summary shown to teachers and above.
type OverviewStats struct {
	TotalPapers      int `json:"total_papers"`
	GraduationPapers int `json:"graduation_papers"`
	CoursePapers     int `json:"course_papers"`
	TotalChecks      int `json:"total_checks"`
	TotalUsers       int `json:"total_users"`
}

// DepartmentStats maps department name to paper count.
type DepartmentStats struct {
	Departments map[string]int `json:"departments"`
}

// SupervisorStats maps supervisor id to supervised paper count.
type SupervisorStats struct {
	Teachers map[string]int `json:"teachers"`
}

// OverviewStatistics fetches the service-wide counters.
func (c *Client) OverviewStatistics(ctx context.Context) (*OverviewStats, error) {
	var stats OverviewStats
	if err := c.get(ctx, "/statistics/overview", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// DepartmentStatistics fetches per-department paper counts. Director role.
func (c *Client) DepartmentStatistics(ctx context.Context) (*DepartmentStats, error) {
	var stats DepartmentStats
	if err := c.get(ctx, "/statistics/department", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SupervisorStatistics fetches per-supervisor paper counts. Director role.
func (c *Client) SupervisorStatistics(ctx context.Context) (*SupervisorStats, error) {
	var stats SupervisorStats
	if err := c.get(ctx, "/statistics/teacher", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
