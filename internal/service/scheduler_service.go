package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/engine"
	"github.com/deptsched/timetable-api/internal/models"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
	"github.com/deptsched/timetable-api/pkg/jobs"
)

// runRepository is the persistence dependency of SchedulerService, satisfied
// by *repository.RunRepository.
type runRepository interface {
	Create(ctx context.Context, run *models.Run) error
	GetByID(ctx context.Context, id string) (*models.Run, error)
	ListRecent(ctx context.Context, limit int) ([]models.Run, error)
}

const recentRunsCacheKey = "scheduler:recent_runs"

// renderer is the export dependency of SchedulerService, satisfied by
// *ExportService.
type renderer interface {
	RenderRun(ctx context.Context, runID string, result *engine.Result, templates *engine.ShiftTemplates, req dto.FacultyPlanRequest) ([]FileRef, error)
}

// SchedulerConfig governs generator behaviour.
type SchedulerConfig struct {
	DefaultSeed       int64
	CompatibilityMode bool
	RunCacheTTL       time.Duration
}

const exportJobType = "render_run"

// SchedulerService wraps engine.Schedule with validation, persistence,
// metrics, and asynchronous export dispatch. Grounded on the teacher's
// schedule_generator_service.go constructor-injection shape and its
// TTL-scoped in-memory result store (here: runStore, keyed by run ID).
type SchedulerService struct {
	templates *engine.ShiftTemplates
	repo      runRepository
	exporter  renderer
	queue     *jobs.Queue
	metrics   *MetricsService
	store     *runStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SchedulerConfig
}

// NewSchedulerService wires scheduler dependencies. It owns its export
// worker queue (built from queueCfg) so construction never needs a
// not-yet-existing *SchedulerService to close over; callers must call Start
// before the first Generate call and Stop on shutdown.
func NewSchedulerService(
	templates *engine.ShiftTemplates,
	repo runRepository,
	exporter renderer,
	queueCfg jobs.QueueConfig,
	metrics *MetricsService,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SchedulerConfig,
) *SchedulerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultSeed == 0 {
		cfg.DefaultSeed = 7
	}
	queueCfg.Logger = logger
	svc := &SchedulerService{
		templates: templates,
		repo:      repo,
		exporter:  exporter,
		metrics:   metrics,
		store:     newRunStore(cfg.RunCacheTTL),
		cache:     cache,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
	svc.queue = jobs.NewQueue(exportJobType, svc.renderJob, queueCfg)
	return svc
}

// Start begins the export worker pool. Must be called before any Generate.
func (s *SchedulerService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains and stops the export worker pool.
func (s *SchedulerService) Stop() {
	s.queue.Stop()
}

// exportJobPayload is carried through the worker queue so rendering never
// blocks the synchronous engine call.
type exportJobPayload struct {
	RunID  string
	Result *engine.Result
	Req    dto.FacultyPlanRequest
}

// renderJob is the jobs.Handler backing this service's export queue.
func (s *SchedulerService) renderJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportJobPayload)
	if !ok {
		return fmt.Errorf("scheduler export job: unexpected payload type %T", job.Payload)
	}
	refs, err := s.exporter.RenderRun(ctx, payload.RunID, payload.Result, s.templates, payload.Req)
	if err != nil {
		s.logger.Error("export render failed", zap.String("run_id", payload.RunID), zap.Error(err))
		return err
	}
	names := make([]string, 0, len(refs))
	urls := make(map[string]string, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
		urls[ref.Name] = ref.URL
	}
	finishedAt := time.Now().UTC()
	s.store.Save(runRecord{
		RunID:         payload.RunID,
		Files:         names,
		DownloadURLs:  urls,
		UnplacedCount: len(payload.Result.UnplacedTasks),
		FinishedAt:    finishedAt,
	})

	item := dto.RunListItem{
		RunID:         payload.RunID,
		Files:         names,
		UnplacedCount: len(payload.Result.UnplacedTasks),
		FinishedAt:    finishedAt.Format(time.RFC3339),
	}
	s.cacheRun(ctx, item)
	return nil
}

// cacheRun writes the just-finished run into the recent-run cache
// (SPEC_FULL.md §2.6): a per-run key for GET /success?run=<id> and a
// prepended, capped recent-list key for the bare GET /success listing. Both
// are write-through from the export worker, never read back into a grid.
func (s *SchedulerService) cacheRun(ctx context.Context, item dto.RunListItem) {
	if !s.cache.Enabled() {
		return
	}
	ttl := s.cfg.RunCacheTTL
	_ = s.cache.Set(ctx, "scheduler:run:"+item.RunID, item, ttl)

	var recent []dto.RunListItem
	_, _ = s.cache.Get(ctx, recentRunsCacheKey, &recent)
	recent = append([]dto.RunListItem{item}, recent...)
	if len(recent) > 20 {
		recent = recent[:20]
	}
	_ = s.cache.Set(ctx, recentRunsCacheKey, recent, ttl)
}

// Generate validates the faculty plan, runs the engine synchronously,
// persists a run-ledger record, and enqueues export rendering. The engine
// invocation is fast and single-threaded (spec.md §5); only the workbook
// rendering moves to the background.
func (s *SchedulerService) Generate(ctx context.Context, req dto.FacultyPlanRequest, seed int64) (*dto.GenerateRunResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid faculty plan")
	}
	if seed == 0 {
		seed = s.cfg.DefaultSeed
	}

	faculties, freeDays := dto.ToEngineInput(req)

	runID := uuid.NewString()
	locked, forced := 0, 0
	sink := func(e engine.Event) {
		switch {
		case strings.HasPrefix(e.Message, "[SUCCESS"):
			locked++
			s.metrics.RecordLocked(obligationTypeOf(e.Message))
		case strings.HasPrefix(e.Message, "[FORCE"):
			forced++
			s.metrics.RecordForced(obligationTypeOf(e.Message))
		}
	}

	started := time.Now()
	result, err := engine.Schedule(faculties, freeDays, s.templates, engine.Options{
		Seed:              seed,
		CompatibilityMode: s.cfg.CompatibilityMode,
	}, sink)
	duration := time.Since(started)
	if err != nil {
		s.metrics.ObserveSchedulerRun(duration, 0)
		s.logger.Error("engine.Schedule failed", zap.String("run_id", runID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, err.Error())
	}
	s.metrics.ObserveSchedulerRun(duration, len(result.UnplacedTasks))

	finished := time.Now().UTC()
	run := &models.Run{
		ID:              runID,
		PlanFingerprint: fingerprint(req),
		Seed:            seed,
		FacultyCount:    len(faculties),
		DivisionCount:   len(result.DivisionGrids),
		UnplacedCount:   len(result.UnplacedTasks),
		StartedAt:       started.UTC(),
		FinishedAt:      finished,
	}
	if err := s.repo.Create(ctx, run); err != nil {
		s.logger.Warn("failed to persist run ledger entry", zap.String("run_id", runID), zap.Error(err))
	}

	if err := s.queue.Enqueue(jobs.Job{
		ID:   runID,
		Type: exportJobType,
		Payload: exportJobPayload{
			RunID:  runID,
			Result: result,
			Req:    req,
		},
	}); err != nil {
		s.logger.Error("failed to enqueue export job", zap.String("run_id", runID), zap.Error(err))
	}

	return &dto.GenerateRunResponse{
		RunID:         runID,
		Seed:          seed,
		FacultyCount:  len(faculties),
		DivisionCount: len(result.DivisionGrids),
		LockedCount:   locked,
		ForcedCount:   forced,
		UnplacedTasks: dto.FromUnplacedTasks(result.UnplacedTasks),
		Redirect:      "/success?run=" + runID,
	}, nil
}

// RunStatus reports a single run's export completion state for GET /success.
// The in-memory store answers first (it alone carries signed download URLs
// for Download to resolve); a miss there falls back to the Redis recent-run
// cache, then to the Postgres ledger — which knows a run happened but not
// which files it produced, since file names are never persisted. The second
// return value reports whether the run was found at all; the third reports
// whether it was served from the in-memory/Redis cache tiers (true) rather
// than the Postgres ledger fallback, for callers that want to surface a
// cache-hit indicator.
func (s *SchedulerService) RunStatus(ctx context.Context, runID string) (dto.RunListItem, bool, bool) {
	if rec, ok := s.store.Get(runID); ok {
		return dto.RunListItem{
			RunID:         rec.RunID,
			Files:         rec.Files,
			UnplacedCount: rec.UnplacedCount,
			FinishedAt:    rec.FinishedAt.Format(time.RFC3339),
		}, true, true
	}

	var cached dto.RunListItem
	if hit, _ := s.cache.Get(ctx, "scheduler:run:"+runID, &cached); hit {
		return cached, true, true
	}

	if run, err := s.repo.GetByID(ctx, runID); err == nil && run != nil {
		return dto.RunListItem{
			RunID:         run.ID,
			UnplacedCount: run.UnplacedCount,
			FinishedAt:    run.FinishedAt.Format(time.RFC3339),
		}, true, false
	}
	return dto.RunListItem{}, false, false
}

// RecentRuns lists recently completed runs, most recent first: in-memory
// store first, then the Redis cache, then the Postgres ledger on a cache
// miss (SPEC_FULL.md §2.6).
func (s *SchedulerService) RecentRuns(ctx context.Context, limit int) []dto.RunListItem {
	recs := s.store.Recent(limit)
	if len(recs) > 0 {
		items := make([]dto.RunListItem, 0, len(recs))
		for _, rec := range recs {
			items = append(items, dto.RunListItem{
				RunID:         rec.RunID,
				Files:         rec.Files,
				UnplacedCount: rec.UnplacedCount,
				FinishedAt:    rec.FinishedAt.Format(time.RFC3339),
			})
		}
		return items
	}

	var cached []dto.RunListItem
	if hit, _ := s.cache.Get(ctx, recentRunsCacheKey, &cached); hit {
		if limit > 0 && len(cached) > limit {
			cached = cached[:limit]
		}
		return cached
	}

	runs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Warn("failed to list recent runs from ledger", zap.Error(err))
		return nil
	}
	items := make([]dto.RunListItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, dto.RunListItem{
			RunID:         run.ID,
			UnplacedCount: run.UnplacedCount,
			FinishedAt:    run.FinishedAt.Format(time.RFC3339),
		})
	}
	return items
}

// DownloadURL returns the signed URL recorded for a file of a given run.
func (s *SchedulerService) DownloadURL(runID, filename string) (string, bool) {
	rec, ok := s.store.Get(runID)
	if !ok {
		return "", false
	}
	url, ok := rec.DownloadURLs[filename]
	return url, ok
}

func obligationTypeOf(message string) string {
	if strings.Contains(message, "Lab") {
		return "lab"
	}
	return "theory"
}

// fingerprint hashes the plan's structural content so identical resubmits
// are recognizable in the ledger without storing the raw payload twice.
func fingerprint(req dto.FacultyPlanRequest) string {
	encoded, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
