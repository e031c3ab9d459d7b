// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"distropro-backend/models"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// ReminderService chases receivables: shops whose ledger balance stays above
// a threshold get a daily payment reminder over SMS or WhatsApp.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
	ledger *LedgerService
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		ledger: NewLedgerService(db),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	if _, err := c.AddFunc("0 9 * * *", s.SendCreditReminders); err != nil {
		log.Printf("Failed to schedule credit reminders: %v", err)
		return
	}

	c.Start()
	log.Println("Credit reminder scheduler started")
}

func (s *ReminderService) SendCreditReminders() {
	log.Println("Starting credit reminder processing...")

	var users []models.User
	if err := s.db.Find(&users, "is_active = ?", true).Error; err != nil {
		log.Printf("Failed to fetch users: %v", err)
		return
	}

	for _, user := range users {
		s.processUserReminders(user.ID)
	}

	log.Println("Credit reminder processing completed")
}

func reminderThreshold() decimal.Decimal {
	if env := os.Getenv("CREDIT_REMINDER_THRESHOLD"); env != "" {
		if d, err := decimal.NewFromString(env); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func (s *ReminderService) processUserReminders(userID uuid.UUID) {
	threshold := reminderThreshold()

	var shops []models.Shop
	if err := s.db.Where("user_id = ? AND is_active = true", userID).Find(&shops).Error; err != nil {
		log.Printf("User %s: failed to fetch shops: %v", userID, err)
		return
	}

	today := time.Now().Truncate(24 * time.Hour)
	for _, shop := range shops {
		if shop.ContactPhone == "" {
			continue
		}

		balance, err := s.ledger.CurrentShopBalance(userID, shop.ID)
		if err != nil {
			log.Printf("Shop %s: failed to read balance: %v", shop.Name, err)
			continue
		}
		if balance.LessThanOrEqual(threshold) {
			continue
		}

		// One reminder per shop per day
		var already int64
		s.db.Model(&models.CreditReminderLog{}).
			Where("shop_id = ? AND sent_at >= ?", shop.ID, today).
			Count(&already)
		if already > 0 {
			continue
		}

		s.sendReminder(userID, &shop, balance)
	}
}

func (s *ReminderService) sendReminder(userID uuid.UUID, shop *models.Shop, balance decimal.Decimal) {
	message := fmt.Sprintf("Dear %s, your outstanding balance with us is %s. Kindly arrange payment at your earliest convenience.",
		shop.Name, balance.StringFixed(2))

	// WhatsApp when the phone is in E.164 format, plain SMS otherwise
	channel := "sms"
	to := shop.ContactPhone
	if strings.HasPrefix(shop.ContactPhone, "+") {
		to = "whatsapp:" + shop.ContactPhone
		channel = "whatsapp"
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(message)
	if channel == "whatsapp" {
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", shop.Name, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.Printf("Reminder sent to %s, SID: %s", shop.Name, *resp.Sid)
	} else {
		log.Printf("Reminder sent to %s, but no SID returned", shop.Name)
	}

	reminderLog := models.CreditReminderLog{
		UserID:  userID,
		ShopID:  shop.ID,
		Balance: balance,
		Channel: channel,
		Status:  status,
		Error:   errorMsg,
		SentAt:  time.Now(),
	}
	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for %s: %v", shop.Name, err)
	}
}
