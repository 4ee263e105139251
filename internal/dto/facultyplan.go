// Package dto holds the wire shapes accepted/returned by the HTTP front-end,
// kept separate from the dependency-free internal/engine package so the
// engine never imports JSON tags or validator rules (spec.md §6,
// SPEC_FULL.md §2.1).
package dto

// FacultyPlanRequest is the Faculty Plan JSON accepted by the HTTP adapter,
// keys exactly as spec.md §6 defines them (case-sensitive, mixed
// PascalCase/underscore — this is the wire contract the original tool's
// JSON collector produced and callers still send).
type FacultyPlanRequest struct {
	University string          `json:"university"`
	Department string          `json:"department"`
	Academic   string          `json:"academic"`
	Faculties  []FacultyInput  `json:"faculties" validate:"required,min=1,dive"`
}

// FacultyInput is one faculty's identity, shift, and teaching obligations.
type FacultyInput struct {
	Name        string          `json:"Name" validate:"required"`
	FullName    string          `json:"Full_Name" validate:"required"`
	Designation string          `json:"Designation" validate:"required"`
	Shift       string          `json:"Shift" validate:"required,oneof=8-3 10-5"`
	WeeklyHours int             `json:"Weekly_Hours" validate:"required,min=1"`
	Subjects    []SubjectInput  `json:"Subjects" validate:"required,min=1,dive"`
}

// SubjectInput is the tagged union of Theory/Lab obligations, matching
// spec.md §3's Obligation and §6's wire encoding of it.
type SubjectInput struct {
	Type           string   `json:"Type" validate:"required,oneof=Lab Theory"`
	Semester       string   `json:"Semester" validate:"required"`
	Division       string   `json:"Division" validate:"required"`
	DivShift       string   `json:"Div_Shift" validate:"required,oneof=8-3 10-5"`
	Subject        string   `json:"Subject" validate:"required"`
	CourseCode     string   `json:"Course_Code"`
	TheoryClasses  int      `json:"Theory_Classes" validate:"omitempty,min=1"`
	NumLabs        int      `json:"Num_Labs" validate:"omitempty,min=1"`
	Batches        []string `json:"Batches"`
	BatchesGrouped bool     `json:"Batches_Grouped"`
	Holidays       []string `json:"Holidays"`
}

// GenerateRunResponse summarises one engine.Schedule invocation: placement
// counts and the unplaced-task report (spec.md §7 — placement failures ride
// inside the 200 response body, they never abort the run).
type GenerateRunResponse struct {
	RunID         string              `json:"run_id"`
	Seed          int64               `json:"seed"`
	FacultyCount  int                 `json:"faculty_count"`
	DivisionCount int                 `json:"division_count"`
	LockedCount   int                 `json:"locked_count"`
	ForcedCount   int                 `json:"forced_count"`
	UnplacedTasks []UnplacedTaskView  `json:"unplaced_tasks"`
	Redirect      string              `json:"redirect"`
}

// UnplacedTaskView is the JSON projection of engine.UnplacedTask.
type UnplacedTaskView struct {
	Type     string `json:"type"`
	Faculty  string `json:"faculty"`
	Semester string `json:"semester"`
	Division string `json:"division"`
	Subject  string `json:"subject"`
	Batch    string `json:"batch,omitempty"`
	Reason   string `json:"reason"`
}

// RunListItem is one row of GET /success.
type RunListItem struct {
	RunID         string   `json:"run_id"`
	Files         []string `json:"files"`
	UnplacedCount int      `json:"unplaced_count"`
	FinishedAt    string   `json:"finished_at"`
}
