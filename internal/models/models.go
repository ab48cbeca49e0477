// Package models defines the core domain types for papercheck.
package models

import "time"

// CheckStatus represents the current state of a check task on the server.
type CheckStatus string

const (
	CheckStatusPending    CheckStatus = "pending"
	CheckStatusProcessing CheckStatus = "processing"
	CheckStatusCompleted  CheckStatus = "completed"
	CheckStatusFailed     CheckStatus = "failed"
)

// Terminal reports whether no further status transitions are expected.
func (s CheckStatus) Terminal() bool {
	return s == CheckStatusCompleted || s == CheckStatusFailed
}

// Role is a user role. Roles form a ladder; higher roles include the
// permissions of lower ones.
type Role string

const (
	RoleStudent  Role = "student"
	RoleTeacher  Role = "teacher"
	RoleDirector Role = "director"
	RoleDean     Role = "dean"
	RoleAdmin    Role = "admin"
)

// roleLevels orders roles for permission checks.
var roleLevels = map[Role]int{
	RoleStudent:  1,
	RoleTeacher:  2,
	RoleDirector: 3,
	RoleDean:     4,
	RoleAdmin:    5,
}

// AtLeast reports whether r has at least the privileges of other.
func (r Role) AtLeast(other Role) bool {
	return roleLevels[r] >= roleLevels[other]
}

// PaperType distinguishes graduation theses from course papers.
type PaperType string

const (
	PaperTypeGraduation PaperType = "graduation"
	PaperTypeCourse     PaperType = "course"
)

// Grade is the overall grade assigned to a checked paper.
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradePassing   Grade = "passing"
	GradeFailure   Grade = "failure"
)

// Severity classifies an individual issue found by a check.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityInfo     Severity = "info"
)

// User represents an account on the checking service.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Paper represents an uploaded paper.
type Paper struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PaperType   PaperType `json:"paper_type"`
	StudentName string    `json:"student_name,omitempty"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Template represents a check template (format rules etc.).
type Template struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	TemplateType PaperType `json:"template_type"`
	Visibility   string    `json:"visibility"` // "public" or "private"
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Parameter is a grading parameter set: the duplicate-rate cutoff and the
// per-category issue-count thresholds that map a check outcome to a grade.
// The wire format is flat, one field per threshold.
type Parameter struct {
	ID   string `json:"id"`
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

	// ApplicationScope is "global", "department" or "major"; ScopeID names
	// the department/major for the non-global scopes.
	ApplicationScope string `json:"application_scope"`
	ScopeID          string `json:"scope_id,omitempty"`

	// A locked parameter set rejects updates until a dean unlocks it.
	Locked   bool       `json:"lock_status"`
	LockedBy string     `json:"locked_by,omitempty"`
	LockedAt *time.Time `json:"locked_at,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// PreviousPaper is an entry in the previous-years paper library used as the
// duplicate-detection corpus.
type PreviousPaper struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Year       int       `json:"year"`
	Department string    `json:"department"`
	Keywords   []string  `json:"keywords,omitempty"`
	Summary    string    `json:"summary,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// CheckConfiguration is the input to a check submission: which paper, which
// template, and which check categories to run.
type CheckConfiguration struct {
	PaperID        string `json:"paper_id"`
	TemplateID     string `json:"template_id"`
	CheckTitle     bool   `json:"check_title"`
	CheckFormat    bool   `json:"check_format"`
	CheckContent   bool   `json:"check_content"`
	CheckDuplicate bool   `json:"check_duplicate"`
	CheckLogic     bool   `json:"check_logic"`
}

// CheckTask is the server's view of one check job. The task id is assigned on
// submission and immutable; ResultID is set only once status is completed and
// ErrorMessage only once status is failed.
type CheckTask struct {
	TaskID          string      `json:"task_id"`
	Status          CheckStatus `json:"status"`
	ProgressPercent int         `json:"progress"`
	CurrentStage    string      `json:"current_stage"`
	ResultID        string      `json:"result_id,omitempty"`
	ErrorMessage    string      `json:"error,omitempty"`
}

// Issue is a single problem reported by a check.
type Issue struct {
	ID          string   `json:"id"`
	Type        string   `json:"issue_type"`
	Severity    Severity `json:"issue_level"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// Result is a completed check's graded outcome.
type Result struct {
	ID          string    `json:"id"`
	PaperID     string    `json:"paper_id"`
	PaperTitle  string    `json:"paper_title,omitempty"`
	Grade       Grade     `json:"grade"`
	Score       float64   `json:"score"`
	TotalIssues int       `json:"total_issues"`
	Issues      []Issue   `json:"issues,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}
