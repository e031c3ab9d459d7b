package controllers

import (
	"errors"
	"net/http"
	"time"

	"distropro-backend/config"
	"distropro-backend/models"
	"distropro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseInput struct {
	Title       string          `json:"title" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate *time.Time      `json:"expenseDate"`
	Description string          `json:"description"`
}

type UpdateExpenseInput struct {
	Title       *string          `json:"title"`
	Amount      *decimal.Decimal `json:"amount"`
	ExpenseDate *time.Time       `json:"expenseDate"`
	Description *string          `json:"description"`
}

func CreateExpense(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.Amount.IsPositive() {
		utils.RespondWithError(c, http.StatusUnprocessableEntity, "Amount must be greater than zero")
		return
	}

	expense := models.Expense{
		UserID:      userUUID,
		Title:       input.Title,
		Amount:      input.Amount,
		ExpenseDate: time.Now(),
		Description: input.Description,
	}
	if input.ExpenseDate != nil {
		expense.ExpenseDate = *input.ExpenseDate
	}

	if err := config.DB.Create(&expense).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create expense")
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// GetExpenses lists expenses newest first; ?date=YYYY-MM-DD narrows to one
// day and adds the day's total.
func GetExpenses(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userUUID)
	dateFilter := c.Query("date")
	if dateFilter != "" {
		day, err := time.Parse("2006-01-02", dateFilter)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		start := utils.BeginningOfDay(day)
		query = query.Where("expense_date >= ? AND expense_date < ?", start, start.AddDate(0, 0, 1))
	}

	var expenses []models.Expense
	if err := query.Order("expense_date DESC").Find(&expenses).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch expenses")
		return
	}

	if dateFilter != "" {
		total := decimal.Zero
		for i := range expenses {
			total = total.Add(expenses[i].Amount)
		}
		c.JSON(http.StatusOK, gin.H{"expenses": expenses, "dailyTotal": total})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

func UpdateExpense(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var expense models.Expense
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, expenseID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input UpdateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Title != nil {
		expense.Title = *input.Title
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			utils.RespondWithError(c, http.StatusUnprocessableEntity, "Amount must be greater than zero")
			return
		}
		expense.Amount = *input.Amount
	}
	if input.ExpenseDate != nil {
		expense.ExpenseDate = *input.ExpenseDate
	}
	if input.Description != nil {
		expense.Description = *input.Description
	}

	if err := config.DB.Save(&expense).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update expense")
		return
	}

	c.JSON(http.StatusOK, expense)
}

func DeleteExpense(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := config.DB.Where("user_id = ? AND id = ?", userUUID, expenseID).Delete(&models.Expense{})
	if res.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete expense")
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Expense not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// AjaxGetExpenseDetails feeds the edit dialog.
func AjaxGetExpenseDetails(c *gin.Context) {
	userUUID, ok := currentUserID(c)
	if !ok {
		return
	}
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondAJAXError(c, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var expense models.Expense
	if err := config.DB.Where("user_id = ? AND id = ?", userUUID, expenseID).First(&expense).Error; err != nil {
		utils.RespondAJAXError(c, http.StatusNotFound, "Expense not found")
		return
	}

	utils.RespondAJAXData(c, gin.H{
		"pk":           expense.ID,
		"title":        expense.Title,
		"amount":       expense.Amount.StringFixed(2),
		"expense_date": expense.ExpenseDate.Format("2006-01-02"),
		"description":  expense.Description,
	})
}
