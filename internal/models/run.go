package models

import "time"

// Run is one audit-trail row recorded after an engine.Schedule invocation.
// This is an observability record, not scheduling state: a fresh run never
// reads it back into a grid (spec.md's Non-goals bar persistence of
// *scheduling state*, not an audit log — SPEC_FULL.md §2.5).
type Run struct {
	ID            string    `db:"id" json:"id"`
	PlanFingerprint string  `db:"plan_fingerprint" json:"plan_fingerprint"`
	Seed          int64     `db:"seed" json:"seed"`
	FacultyCount  int       `db:"faculty_count" json:"faculty_count"`
	DivisionCount int       `db:"division_count" json:"division_count"`
	UnplacedCount int       `db:"unplaced_count" json:"unplaced_count"`
	StartedAt     time.Time `db:"started_at" json:"started_at"`
	FinishedAt    time.Time `db:"finished_at" json:"finished_at"`
}

// RunSummary is the lightweight projection listed by GET /success, cached
// in Redis with a short TTL (SPEC_FULL.md §2.6) and backed by the Postgres
// ledger on a cache miss.
type RunSummary struct {
	RunID         string    `json:"run_id"`
	Files         []string  `json:"files"`
	UnplacedCount int       `json:"unplaced_count"`
	FinishedAt    time.Time `json:"finished_at"`
}
