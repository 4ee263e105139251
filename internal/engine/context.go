package engine

import "math/rand"

// Event is a best-effort, structured placement event. The engine never
// mutates placement state based on logging (spec.md §5); adapters attach a
// Sink to route events into their own logger.
type Event struct {
	Level   string // "debug" | "info" | "warn" | "error"
	Message string
}

// Sink receives Events as the engine runs. Nil is valid and silently drops
// events.
type Sink func(Event)

// SchedulerContext is the re-expression of the reference's global mutable
// maps (FACULTY_SUBJECT_COURSE, FACULTY_FULLNAME, FREE_DAY_SETTINGS, ftables,
// dtables) as a value passed through every call, per spec.md §9. It owns the
// two grid stores, the free-day settings, the run-scoped PRNG, and the
// pending/unplaced queues for exactly one scheduling run.
type SchedulerContext struct {
	templates       *ShiftTemplates
	freeDaySettings FreeDaySettings
	opts            Options

	facultyGrids  map[string]*FacultyGrid
	divisionGrids map[DivisionKey]*DivisionGrid

	rng *rand.Rand

	pending  []PendingTask
	unplaced []UnplacedTask

	sink Sink
	used bool
}

// NewSchedulerContext builds a fresh, single-use scheduling context. Per
// spec.md §5, a SchedulerContext MUST NOT be reused across runs — each run
// owns disjoint grid stores and disjoint FreeDaySettings.
func NewSchedulerContext(templates *ShiftTemplates, freeDays FreeDaySettings, opts Options, sink Sink) *SchedulerContext {
	if freeDays == nil {
		freeDays = FreeDaySettings{}
	}
	return &SchedulerContext{
		templates:       templates,
		freeDaySettings: freeDays,
		opts:            opts,
		facultyGrids:    make(map[string]*FacultyGrid),
		divisionGrids:   make(map[DivisionKey]*DivisionGrid),
		rng:             rand.New(rand.NewSource(opts.Seed)),
		sink:            sink,
	}
}

func (ctx *SchedulerContext) emitEvent(e Event) {
	if ctx.sink != nil {
		ctx.sink(e)
	}
}

// randomDayOrder returns a uniformly random permutation of Days, drawn from
// the context's run-scoped PRNG (spec.md §4.5).
func (ctx *SchedulerContext) randomDayOrder() []Day {
	perm := ctx.rng.Perm(len(Days))
	order := make([]Day, len(Days))
	for i, p := range perm {
		order[i] = Days[p]
	}
	return order
}
