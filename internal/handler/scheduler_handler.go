package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deptsched/timetable-api/internal/dto"
	"github.com/deptsched/timetable-api/internal/middleware"
	"github.com/deptsched/timetable-api/internal/service"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
	"github.com/deptsched/timetable-api/pkg/response"
	"github.com/deptsched/timetable-api/pkg/storage"
)

// SchedulerHandler exposes the timetable-generation surface of spec.md §6:
// the form/builder pages (served as JSON descriptors — this is an API, the
// teacher's HTML templating is not reused here), POST /generate,
// GET /success, and GET /download/:token.
type SchedulerHandler struct {
	scheduler *service.SchedulerService
	storage   *storage.LocalStorage
	signer    *storage.SignedURLSigner
}

// NewSchedulerHandler constructs a scheduler handler.
func NewSchedulerHandler(scheduler *service.SchedulerService, storage *storage.LocalStorage, signer *storage.SignedURLSigner) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler, storage: storage, signer: signer}
}

// Home godoc
// @Summary Form page descriptor
// @Description Returns the Faculty Plan JSON schema the builder UI should collect
// @Tags Scheduler
// @Produce json
// @Success 200 {object} response.Envelope
// @Router / [get]
func (h *SchedulerHandler) Home(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"message": "submit a Faculty Plan to POST /generate",
	}, nil)
}

// Builder godoc
// @Summary JSON-building UI descriptor
// @Description Describes the Faculty Plan shape for a JSON-building client
// @Tags Scheduler
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /builder [get]
func (h *SchedulerHandler) Builder(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"shifts":       []string{"8-3", "10-5"},
		"obligation":   []string{"Theory", "Lab"},
		"designations": []string{"Professor", "Assistant Professor", "Jr Assistant Professor"},
	}, nil)
}

// Generate godoc
// @Summary Generate a weekly timetable
// @Description Runs the engine against a Faculty Plan and writes workbooks
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.FacultyPlanRequest true "Faculty Plan"
// @Param seed query int false "PRNG seed override"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /generate [post]
func (h *SchedulerHandler) Generate(c *gin.Context) {
	var req dto.FacultyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid faculty plan payload"))
		return
	}

	var seed int64
	if raw := c.Query("seed"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "seed must be an integer"))
			return
		}
		seed = parsed
	}

	res, err := h.scheduler.Generate(c.Request.Context(), req, seed)
	if err != nil {
		response.Error(c, err)
		return
	}

	meta := map[string]interface{}{}
	if claims := claimsFromContext(c); claims != nil {
		meta["initiated_by"] = claims.Username
	}
	response.JSON(c, http.StatusOK, res, nil, meta)
}

// Success godoc
// @Summary List generated files for a run, or recent runs
// @Tags Scheduler
// @Produce json
// @Param run query string false "run ID"
// @Success 200 {object} response.Envelope
// @Router /success [get]
func (h *SchedulerHandler) Success(c *gin.Context) {
	if runID := c.Query("run"); runID != "" {
		item, ok, cacheHit := h.scheduler.RunStatus(c.Request.Context(), runID)
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "run not found or its export has not finished yet"))
			return
		}
		middleware.SetCacheHit(c, cacheHit)
		response.JSON(c, http.StatusOK, item, nil, middleware.ExtractMeta(c))
		return
	}

	response.JSON(c, http.StatusOK, h.scheduler.RecentRuns(c.Request.Context(), 20), nil)
}

// Download godoc
// @Summary Download a generated file via a signed token
// @Tags Scheduler
// @Produce application/octet-stream
// @Param token path string true "signed download token"
// @Success 200 {file} byte
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /download/{token} [get]
func (h *SchedulerHandler) Download(c *gin.Context) {
	token := c.Param("token")

	_, relPath, _, err := h.signer.Parse(token, false)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token"))
		return
	}

	file, err := h.storage.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", "attachment; filename=\""+filenameOf(relPath)+"\"")
	c.Header("Content-Type", "application/octet-stream")
	http.ServeContent(c.Writer, c.Request, filenameOf(relPath), time.Time{}, file)
}

func filenameOf(relPath string) string {
	for i := len(relPath) - 1; i >= 0; i-- {
		if relPath[i] == '/' {
			return relPath[i+1:]
		}
	}
	return relPath
}
