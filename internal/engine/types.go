package engine

// Day is one of the fixed ordered teaching days.
type Day string

const (
	Mon Day = "Mon"
	Tue Day = "Tue"
	Wed Day = "Wed"
	Thu Day = "Thu"
	Fri Day = "Fri"
	Sat Day = "Sat"
)

// Days is the canonical week order used for tight-force iteration and day
// reference validation.
var Days = []Day{Mon, Tue, Wed, Thu, Fri, Sat}

func isDay(d Day) bool {
	for _, want := range Days {
		if d == want {
			return true
		}
	}
	return false
}

// Shift names, matching the Faculty Plan JSON values exactly (spec.md §6).
const (
	ShiftMorning = "8-3"
	ShiftLate    = "10-5"
)

// SlotLabel identifies a slot within a shift. Never compared across shifts
// directly — see CanonicalSlot.
type SlotLabel string

// CanonicalSlot is the shift-independent (start,end) in minutes-since-midnight
// used for cross-shift slot equality.
type CanonicalSlot struct {
	Start int
	End   int
}

// ConsecutivePair is an ordered pair of teaching slot labels adjacent in a
// shift's sequence with no inert slot between them — the unit of a lab block.
type ConsecutivePair struct {
	First  SlotLabel
	Second SlotLabel
}

// SlotSpec is one entry of a shift's ordered slot sequence.
type SlotSpec struct {
	Label SlotLabel
	Inert bool // break/lunch; never a placement target
}

// ShiftTemplate is a named, ordered sequence of slots.
type ShiftTemplate struct {
	Name  string
	Slots []SlotSpec
}

// ObligationType discriminates the Obligation tagged union.
type ObligationType string

const (
	Theory ObligationType = "Theory"
	Lab    ObligationType = "Lab"
)

// Obligation is a single teaching commitment of a Faculty, either a Theory
// line or a Lab line (spec.md §3). Fields irrelevant to the Type are zero.
type Obligation struct {
	Type ObligationType

	Semester  string
	Division  string
	DivShift  string
	Subject   string
	CourseCode string

	// Theory
	WeeklyClasses int

	// Lab
	WeeklyLabs     int
	Batches        []string
	BatchesGrouped bool
}

// Faculty is one teacher: identity, shift, and the obligations they must be
// scheduled against.
type Faculty struct {
	Short       string
	FullName    string
	Designation string
	Shift       string
	WeeklyHours int
	Obligations []Obligation
}

// DivisionKey identifies a (semester, normalized division) cohort.
type DivisionKey struct {
	Semester string
	Division string
}

// FreeDaySettings maps a division cohort to the set of days pre-marked as a
// holiday for that cohort. Populated before any grid is created.
type FreeDaySettings map[DivisionKey][]Day

// Cell is the contents of one grid cell: empty (free), an inert break/lunch
// label, the literal "MERGE", a holiday sentinel, or a placement string.
type Cell = string

const mergeCell Cell = "MERGE"

// Grid is a Day -> SlotLabel -> Cell mapping parameterized by a shift.
type Grid struct {
	Shift string
	Cells map[Day]map[SlotLabel]Cell
}

// FacultyGrid is the Grid owned by one Faculty.
type FacultyGrid struct {
	Short string
	Grid  *Grid
}

// DivisionGrid is the Grid owned by one (Semester, Division) cohort.
type DivisionGrid struct {
	Key  DivisionKey
	Grid *Grid
}

// PendingTask is a single obligation instance that a Lock pass failed to
// place, queued for the Force pass.
type PendingTask struct {
	Type       ObligationType
	FacultyShort string
	FShift     string
	Semester   string
	Division   string
	DivShift   string
	Subject    string
	Batch      string // Lab only
}

// UnplacedTask is a PendingTask that the Force pass also failed to place.
type UnplacedTask struct {
	PendingTask
	Reason string
}

// Options tunes policy decisions the reimplementation made explicit (see
// SPEC_FULL.md §1 and spec.md §9).
type Options struct {
	// Seed scopes the PRNG deterministically for one scheduling run.
	Seed int64

	// CompatibilityMode reproduces the reference implementation's holiday
	// enforcement asymmetry (no holiday guard in lock-fallback or
	// force-relaxed). Default false enforces holidays in every pass.
	CompatibilityMode bool

	// DisableFacultyGridAntiDup reverts to the reference's gap: avoidDup
	// passes only ever check the division grid for same-subject/
	// same-division recurrence, never the faculty grid (spec.md §9 open
	// question). The zero value (false) applies the reimplementation's
	// fix and also checks the faculty grid.
	DisableFacultyGridAntiDup bool
}

// Result is the output of a single Schedule call.
type Result struct {
	FacultyGrids  map[string]*FacultyGrid
	DivisionGrids map[DivisionKey]*DivisionGrid
	UnplacedTasks []UnplacedTask
}
