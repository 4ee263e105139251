package engine

import "fmt"

// holidaySentinelPrefix mirrors the reference's FREE_DAY_LABEL constant.
const holidaySentinelPrefix = "COMPETITIVE EXAM/SUNCLUBS/SPORT"

func holidaySentinel(sem, div string) Cell {
	return Cell(fmt.Sprintf("%s (Sem%s Div%s)", holidaySentinelPrefix, sem, div))
}

// applyFreeDayMarkings pre-fills every teaching slot of every holiday day
// for this cohort with the holiday sentinel, leaving inert cells untouched
// (spec.md §4.3, step 2). It is invoked exactly once, at DivisionGrid
// creation, which guarantees pre-marking precedes any placement call.
func (ctx *SchedulerContext) applyFreeDayMarkings(dg *DivisionGrid, key DivisionKey) {
	days, ok := ctx.freeDaySettings[key]
	if !ok {
		return
	}
	tpl, err := ctx.templates.Template(dg.Grid.Shift)
	if err != nil {
		return
	}
	for _, day := range days {
		if !isDay(day) {
			ctx.emitEvent(Event{Level: "debug", Message: fmt.Sprintf("unrecognized holiday day %q for %+v skipped", day, key)})
			continue
		}
		for _, spec := range tpl.Slots {
			if spec.Inert {
				continue
			}
			dg.Grid.Cells[day][spec.Label] = holidaySentinel(key.Semester, key.Division)
		}
	}
}
