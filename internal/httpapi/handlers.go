package httpapi

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"become/internal/engine"
	"become/internal/logger"
)

// Backend is the service surface the API exposes.
type Backend interface {
	Apply(ctx context.Context, ev engine.Event) (engine.Result, error)
	Snapshot(ctx context.Context) (engine.Snapshot, error)
	Badges(ctx context.Context) ([]engine.Badge, error)
	WeeklySummary(ctx context.Context) (engine.WeekSummary, error)
	CompleteQuest(ctx context.Context, questRef string) (engine.Result, error)
	FailQuest(ctx context.Context, questRef string) (engine.Result, error)
	ForgeQuest(ctx context.Context, questRef, resistance, lesson string) (engine.Result, error)
	CreateIdentity(ctx context.Context, in engine.CreateIdentityInput) (engine.Result, error)
	CreateQuest(ctx context.Context, in engine.CreateQuestInput) (engine.Result, error)
	RecordVisit(ctx context.Context) (engine.Result, error)
	CreateLog(ctx context.Context, content string) (engine.Result, error)
	Logs(ctx context.Context, limit int) ([]engine.Log, error)
	OnboardIdentities(ctx context.Context, ins []engine.CreateIdentityInput) (engine.Result, error)
	PlanDay(ctx context.Context, tasks []engine.DayTask) (engine.Result, error)
	Today(ctx context.Context) ([]engine.Quest, engine.DayProgress, error)
	QuestsByStatus(ctx context.Context, status engine.QuestStatus) ([]engine.Quest, error)
}

type Handler struct {
	svc Backend
	log *logger.Logger
}

func NewHandler(svc Backend, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, snap)
}

func (h *Handler) ListIdentities(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, gin.H{"identities": orEmpty(snap.Identities), "attributes": engine.AttributeScores(snap)})
}

type createIdentityRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Description string   `json:"description"`
	Attributes  []string `json:"attributes"`
}

func (h *Handler) CreateIdentity(c *gin.Context) {
	var req createIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	res, err := h.svc.CreateIdentity(c.Request.Context(), engine.CreateIdentityInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Attributes:  req.Attributes,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListQuests filters by ?status= in storage, or returns today's plan with
// its progress when ?today=true.
func (h *Handler) ListQuests(c *gin.Context) {
	ctx := c.Request.Context()
	if today, _ := strconv.ParseBool(c.Query("today")); today {
		h.today(c)
		return
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, ok := engine.ParseQuestStatus(raw)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: string(engine.KindValidation), Reason: "unknown status " + raw})
			return
		}
		quests, err := h.svc.QuestsByStatus(ctx, status)
		if err != nil {
			h.fail(c, err)
			return
		}
		respondOK(c, gin.H{"quests": orEmpty(quests)})
		return
	}

	snap, err := h.svc.Snapshot(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, gin.H{"quests": orEmpty(snap.Quests), "reflections": orEmpty(snap.Reflections)})
}

func (h *Handler) today(c *gin.Context) {
	quests, progress, err := h.svc.Today(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, gin.H{"quests": orEmpty(quests), "progress": progress})
}

type createQuestRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	IdentityID  string     `json:"identityId"`
	XPReward    int        `json:"xpReward"`
	ScheduledAt *time.Time `json:"scheduledTime"`
}

func (h *Handler) CreateQuest(c *gin.Context) {
	var req createQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	res, err := h.svc.CreateQuest(c.Request.Context(), engine.CreateQuestInput(req))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

type reflectionRequest struct {
	Resistance string `json:"resistance"`
	Lesson     string `json:"lesson"`
}

type updateQuestRequest struct {
	QuestID    string             `json:"questId" binding:"required"`
	Status     string             `json:"status" binding:"required"`
	Reflection *reflectionRequest `json:"reflection"`
}

// UpdateQuest moves a quest to completed, failed or forged.
func (h *Handler) UpdateQuest(c *gin.Context) {
	var req updateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	var (
		res engine.Result
		err error
	)
	status, _ := engine.ParseQuestStatus(req.Status)
	switch status {
	case engine.QuestCompleted:
		res, err = h.svc.CompleteQuest(ctx, req.QuestID)
	case engine.QuestFailed:
		res, err = h.svc.FailQuest(ctx, req.QuestID)
	case engine.QuestForged:
		var refl reflectionRequest
		if req.Reflection != nil {
			refl = *req.Reflection
		}
		res, err = h.svc.ForgeQuest(ctx, req.QuestID, refl.Resistance, refl.Lesson)
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{
			Error:  string(engine.KindValidation),
			Reason: "status must be completed, failed or forged",
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, res)
}

// PostEvent accepts a tagged event such as {"type":"complete_quest","questId":"..."}.
func (h *Handler) PostEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	ev, err := engine.DecodeEvent(body)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.svc.Apply(c.Request.Context(), ev)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, res)
}

func (h *Handler) ListBadges(c *gin.Context) {
	badges, err := h.svc.Badges(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, gin.H{"badges": badges, "unlocked": engine.CountUnlocked(badges)})
}

func (h *Handler) WeeklySummary(c *gin.Context) {
	sum, err := h.svc.WeeklySummary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, sum)
}

func (h *Handler) RecordVisit(c *gin.Context) {
	res, err := h.svc.RecordVisit(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, res)
}

type createLogRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) CreateLog(c *gin.Context) {
	var req createLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	res, err := h.svc.CreateLog(c.Request.Context(), req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListLogs returns journal entries newest first; ?limit= caps the count.
func (h *Handler) ListLogs(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: string(engine.KindValidation), Reason: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	logs, err := h.svc.Logs(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, gin.H{"logs": orEmpty(logs)})
}

type onboardIdentitiesRequest struct {
	Identities []createIdentityRequest `json:"identities" binding:"required"`
}

func (h *Handler) OnboardIdentities(c *gin.Context) {
	var req onboardIdentitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	ins := make([]engine.CreateIdentityInput, len(req.Identities))
	for i, r := range req.Identities {
		ins[i] = engine.CreateIdentityInput(r)
	}
	res, err := h.svc.OnboardIdentities(c.Request.Context(), ins)
	if err != nil {
		h.fail(c, err)
		return
	}
	created := make([]engine.Identity, 0, len(res.CreatedIDs))
	for _, id := range res.CreatedIDs {
		if v := res.Snapshot.FindIdentity(id); v != nil {
			created = append(created, *v)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "identities": created, "awards": orEmpty(res.Awards)})
}

func (h *Handler) OnboardingIdentities(c *gin.Context) {
	snap, err := h.svc.Snapshot(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respondOK(c, gin.H{"identities": orEmpty(snap.Identities)})
}

type planDayRequest struct {
	Tasks []engine.DayTask `json:"tasks" binding:"required"`
}

func (h *Handler) PlanDay(c *gin.Context) {
	var req planDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	res, err := h.svc.PlanDay(c.Request.Context(), req.Tasks)
	if err != nil {
		h.fail(c, err)
		return
	}
	created := make([]engine.Quest, 0, len(res.CreatedIDs))
	for _, id := range res.CreatedIDs {
		if q := res.Snapshot.FindQuest(id); q != nil {
			created = append(created, *q)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "quests": created, "awards": orEmpty(res.Awards)})
}

func (h *Handler) OnboardingQuests(c *gin.Context) {
	h.today(c)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if StatusFor(err) == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	respondError(c, err)
}
