package engine

import (
	"fmt"
	"strings"
)

// Schedule runs the two-phase scheduler for the given faculty plan against a
// fresh SchedulerContext. This is the Engine API of spec.md §6:
//
//	schedule(facultyPlan, freeDaySettings, shiftTemplates, seed) →
//	  {facultyGrids, divisionGrids, unplacedTasks}
//
// Each call owns disjoint grid stores; callers MUST NOT share a
// SchedulerContext across runs (spec.md §5).
func Schedule(faculties []Faculty, freeDays FreeDaySettings, templates *ShiftTemplates, opts Options, sink Sink) (*Result, error) {
	if opts.Seed == 0 {
		opts.Seed = 7 // reference default (spec.md §4.5)
	}
	ctx := NewSchedulerContext(templates, freeDays, opts, sink)
	return ctx.Run(faculties)
}

// Run executes the driver (C7) once against this context. A second call
// returns ReentrantUse, matching spec.md §5's prohibition on reentrant use of
// a live grid store.
func (ctx *SchedulerContext) Run(faculties []Faculty) (*Result, error) {
	if ctx.used {
		return nil, newError(ReentrantUse, "scheduler context already used for a prior run")
	}
	ctx.used = true

	for _, f := range faculties {
		if _, err := ctx.templates.Template(f.Shift); err != nil {
			return nil, err
		}
		fg, err := ctx.ensureFacultyGrid(f.Short, f.Shift)
		if err != nil {
			return nil, err
		}

		labs, theories := splitObligations(f.Obligations)

		// Labs before theory: 2-slot atomic blocks have fewer viable
		// positions than 1-slot theory, so reserving them first reduces
		// pending load (spec.md §4.7).
		for _, ob := range labs {
			dg, err := ctx.ensureDivisionGrid(ob.Semester, ob.Division, ob.DivShift)
			if err != nil {
				return nil, err
			}
			for _, batch := range labBatches(ob) {
				for i := 0; i < ob.WeeklyLabs; i++ {
					if ctx.lockLab(fg, dg, f.Shift, ob.DivShift, f.Short, ob.Semester, ob.Division, ob.Subject, batch) {
						continue
					}
					ctx.pending = append(ctx.pending, PendingTask{
						Type: Lab, FacultyShort: f.Short, FShift: f.Shift,
						Semester: ob.Semester, Division: ob.Division, DivShift: ob.DivShift,
						Subject: ob.Subject, Batch: batch,
					})
				}
			}
		}

		for _, ob := range theories {
			dg, err := ctx.ensureDivisionGrid(ob.Semester, ob.Division, ob.DivShift)
			if err != nil {
				return nil, err
			}
			for i := 0; i < ob.WeeklyClasses; i++ {
				if ctx.lockTheory(fg, dg, f.Shift, ob.DivShift, f.Short, ob.Semester, ob.Division, ob.Subject) {
					continue
				}
				ctx.pending = append(ctx.pending, PendingTask{
					Type: Theory, FacultyShort: f.Short, FShift: f.Shift,
					Semester: ob.Semester, Division: ob.Division, DivShift: ob.DivShift,
					Subject: ob.Subject,
				})
			}
		}
	}

	ctx.drainPending()

	return &Result{
		FacultyGrids:  ctx.facultyGrids,
		DivisionGrids: ctx.divisionGrids,
		UnplacedTasks: ctx.unplaced,
	}, nil
}

// drainPending calls the Force placer once per queued task, after every
// faculty has gone through its lock passes (spec.md §4.7, step 4).
func (ctx *SchedulerContext) drainPending() {
	for _, task := range ctx.pending {
		fg, err := ctx.ensureFacultyGrid(task.FacultyShort, task.FShift)
		if err != nil {
			ctx.unplaced = append(ctx.unplaced, UnplacedTask{PendingTask: task, Reason: err.Error()})
			continue
		}
		dg, err := ctx.ensureDivisionGrid(task.Semester, task.Division, task.DivShift)
		if err != nil {
			ctx.unplaced = append(ctx.unplaced, UnplacedTask{PendingTask: task, Reason: err.Error()})
			continue
		}

		var ok bool
		if task.Type == Theory {
			ok = ctx.forcePlaceTheory(fg, dg, task.FShift, task.DivShift, task.FacultyShort, task.Semester, task.Division, task.Subject)
		} else {
			ok = ctx.forcePlaceLab(fg, dg, task.FShift, task.DivShift, task.FacultyShort, task.Semester, task.Division, task.Subject, task.Batch)
		}
		if !ok {
			ctx.unplaced = append(ctx.unplaced, UnplacedTask{
				PendingTask: task,
				Reason:      fmt.Sprintf("no admissible slot found for %s %s in Sem%s Div%s", task.Type, task.Subject, task.Semester, task.Division),
			})
		}
	}
}

func splitObligations(obligations []Obligation) (labs, theories []Obligation) {
	for _, ob := range obligations {
		if ob.Type == Lab {
			labs = append(labs, ob)
		} else {
			theories = append(theories, ob)
		}
	}
	return labs, theories
}

// labBatches resolves the batch list for a lab obligation. Batches_Grouped
// schedules exactly one block labeled with the joined token of all listed
// batches, matching the reference's implemented behavior (spec.md §9 open
// question; SPEC_FULL.md §1 policy decision).
func labBatches(ob Obligation) []string {
	if ob.BatchesGrouped && len(ob.Batches) > 0 {
		return []string{strings.Join(ob.Batches, "/")}
	}
	if len(ob.Batches) == 0 {
		return []string{"B1"}
	}
	return ob.Batches
}
