// Package engine implements the timetable scheduling core described in
// spec.md: the canonical-time slot model, the mirrored faculty/division
// grids, free-day pre-marking, constraint predicates, and the two-phase
// lock-then-force placement algorithm. It has no I/O and no clock
// dependence; every run is scoped to a single SchedulerContext.
package engine
