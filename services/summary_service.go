package services

import (
	"log"
	"time"

	"distropro-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryService rebuilds the per-day financial rollups. Summaries are
// derived data: each regeneration overwrites the whole row for a (user, day)
// rather than patching individual figures.
type SummaryService struct {
	db *gorm.DB
}

func NewSummaryService(db *gorm.DB) *SummaryService {
	return &SummaryService{db: db}
}

// StartScheduler rebuilds yesterday's and today's summaries for every active
// user shortly after midnight.
func (s *SummaryService) StartScheduler() {
	c := cron.New()

	if _, err := c.AddFunc("15 0 * * *", s.RegenerateAll); err != nil {
		log.Printf("Failed to schedule summary rebuild: %v", err)
		return
	}

	c.Start()
	log.Println("Daily summary scheduler started")
}

// RegenerateAll rebuilds yesterday and today for every active user.
func (s *SummaryService) RegenerateAll() {
	log.Println("Starting daily summary rebuild...")

	var users []models.User
	if err := s.db.Find(&users, "is_active = ?", true).Error; err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return
	}

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	for _, user := range users {
		for _, day := range []time.Time{yesterday, today} {
			if _, err := s.Regenerate(user.ID, day); err != nil {
				log.Printf("User %s: summary rebuild for %s failed: %v", user.ID, day.Format("2006-01-02"), err)
			}
		}
	}

	log.Println("Daily summary rebuild completed")
}

// Regenerate recomputes one user's summary for one day from sales, expenses
// and ledger receipts, then upserts it.
func (s *SummaryService) Regenerate(userID uuid.UUID, day time.Time) (*models.DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	summary := models.DailySummary{
		UserID:      userID,
		SummaryDate: start,
	}

	var sales []models.SalesTransaction
	if err := s.db.Where("user_id = ? AND transaction_date >= ? AND transaction_date < ? AND status <> ?",
		userID, start, end, models.SaleStatusCancelled).
		Find(&sales).Error; err != nil {
		return nil, err
	}
	for i := range sales {
		st := &sales[i]
		summary.TotalRevenue = summary.TotalRevenue.Add(st.GrandTotalRevenue)
		summary.TotalCost = summary.TotalCost.Add(st.GrandTotalCost)
		summary.CashReceived = summary.CashReceived.Add(st.AmountPaidCash)
		summary.OnlineReceived = summary.OnlineReceived.Add(st.AmountPaidOnline)
		summary.CreditExtended = summary.CreditExtended.Add(st.AmountOnCredit)
	}
	summary.SalesCount = len(sales)
	summary.TotalProfit = summary.TotalRevenue.Sub(summary.TotalCost)

	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND expense_date >= ? AND expense_date < ?",
		userID, start, end).
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	summary.TotalExpenses = decimal.Zero
	for i := range expenses {
		summary.TotalExpenses = summary.TotalExpenses.Add(expenses[i].Amount)
	}

	var receipts []models.ShopFinancialTransaction
	if err := s.db.Where("user_id = ? AND transaction_type = ? AND transaction_date >= ? AND transaction_date < ?",
		userID, models.LedgerTypeCashReceipt, start, end).
		Find(&receipts).Error; err != nil {
		return nil, err
	}
	for i := range receipts {
		summary.CashReceipts = summary.CashReceipts.Add(receipts[i].CreditAmount)
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "summary_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_revenue", "total_cost", "total_profit", "total_expenses",
			"cash_received", "online_received", "credit_extended", "cash_receipts",
			"sales_count", "updated_at",
		}),
	}).Create(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
