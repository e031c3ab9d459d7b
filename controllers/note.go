package controllers

import (
	"net/http"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteInput struct {
	Content string `json:"content" binding:"required"`
}

type ReorderNotesInput struct {
	OrderedIDs []uuid.UUID `json:"orderedIds" binding:"required,min=1"`
}

// CreateNote appends a note at the end of the user's list.
func CreateNote(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var maxPos int
	config.DB.Model(&models.Note{}).Where("user_id = ?", userUUID).
		Select("COALESCE(MAX(position), 0)").Scan(&maxPos)

	note := models.Note{
		UserID:   userUUID,
		Content:  input.Content,
		Position: maxPos + 1,
	}
	if err := config.DB.Create(&note).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create note")
		return
	}

	c.JSON(http.StatusCreated, note)
}

// GetNotes returns notes in manual order, incomplete first.
func GetNotes(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var notes []models.Note
	if err := config.DB.Where("user_id = ?", userUUID).
		Order("is_completed ASC, position ASC, created_at ASC").
		Find(&notes).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch notes")
		return
	}

	c.JSON(http.StatusOK, notes)
}

func UpdateNote(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	noteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input NoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	res := config.DB.Model(&models.Note{}).
		Where("id = ? AND user_id = ?", noteID, userUUID).
		Update("content", input.Content)
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update note")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Note not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note updated"})
}

// ToggleNote flips the completion flag.
func ToggleNote(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	noteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := config.DB.Model(&models.Note{}).
		Where("id = ? AND user_id = ?", noteID, userUUID).
		Update("is_completed", gorm.Expr("NOT is_completed"))
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to toggle note")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Note not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note toggled"})
}

// ReorderNotes rewrites positions to match the given ID order.
func ReorderNotes(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input ReorderNotesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range input.OrderedIDs {
			if err := tx.Model(&models.Note{}).
				Where("id = ? AND user_id = ?", id, userUUID).
				Update("position", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to reorder notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notes reordered"})
}

func DeleteNote(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	noteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := config.DB.Where("id = ? AND user_id = ?", noteID, userUUID).Delete(&models.Note{})
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete note")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Note not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}
