package controllers

import (
	"net/http"

	"distropro-backend/services"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID pulls the authenticated user out of the gin context. It
// writes the error response itself; callers just return on !ok.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userUUID, true
}

// parseIDParam parses a :id style path parameter.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service failures onto HTTP: business-rule
// rejections are 422, everything else is a 500.
func respondServiceError(c *gin.Context, err error) {
	if services.IsValidation(err) {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	utils.RespondWithError(c, http.StatusInternalServerError, "Unexpected error: "+err.Error())
}
