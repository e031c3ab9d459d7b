package controllers

import (
	"net/http"
	"time"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/services"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetDailySummary returns the cached rollup for one day, regenerating it on
// demand when missing or when ?refresh=true.
func GetDailySummary(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	if c.Query("refresh") != "true" {
		var summary models.DailySummary
		err := config.DB.Where("user_id = ? AND summary_date = ?", userUUID, utils.BeginningOfDay(day)).
			First(&summary).Error
		if err == nil {
			c.JSON(http.StatusOK, summary)
			return
		}
	}

	summary, err := services.NewSummaryService(config.DB).Regenerate(userUUID, day)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build daily summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetSummaryRange returns the stored summaries between ?from and ?to
// inclusive, oldest first.
func GetSummaryRange(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	from, errFrom := time.Parse("2006-01-02", c.Query("from"))
	to, errTo := time.Parse("2006-01-02", c.Query("to"))
	if errFrom != nil || errTo != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Provide from and to dates (YYYY-MM-DD)")
		return
	}

	var summaries []models.DailySummary
	err := config.DB.Where("user_id = ? AND summary_date >= ? AND summary_date <= ?",
		userUUID, utils.BeginningOfDay(from), utils.BeginningOfDay(to)).
		Order("summary_date ASC").
		Find(&summaries).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch summaries")
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// RegenerateDailySummary forces a rebuild of one day's rollup.
func RegenerateDailySummary(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := services.NewSummaryService(config.DB).Regenerate(userUUID, day)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to regenerate summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
