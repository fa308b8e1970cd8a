package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"become/internal/logger"
)

func NewRouter(h *Handler, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/healthcheck", h.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/snapshot", h.GetSnapshot)

		api.GET("/identities", h.ListIdentities)
		api.POST("/identities", h.CreateIdentity)

		api.GET("/quests", h.ListQuests)
		api.POST("/quests", h.CreateQuest)
		api.PATCH("/quests", h.UpdateQuest)

		api.POST("/events", h.PostEvent)
		api.GET("/badges", h.ListBadges)
		api.GET("/summary/weekly", h.WeeklySummary)
		api.POST("/visits", h.RecordVisit)

		api.GET("/logs", h.ListLogs)
		api.POST("/logs", h.CreateLog)

		onboarding := api.Group("/onboarding")
		onboarding.GET("/identities", h.OnboardingIdentities)
		onboarding.POST("/identities", h.OnboardIdentities)
		onboarding.GET("/quests", h.OnboardingQuests)
		onboarding.POST("/quests", h.PlanDay)
	}
	return router
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
