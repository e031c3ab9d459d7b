package services

import (
	"errors"
	"fmt"
	"log"

	"distropro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ClaimService owns the claim lifecycle: building claims, the bulk stock
// adjustment pass and reversal of completed claims.
type ClaimService struct {
	db *gorm.DB
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{db: db}
}

// applyItemStock applies one claim item's stock effect. direction +1 applies
// the item's normal effect (CLAIMED in, EXCHANGED out); -1 replays the
// inverse. The batch row must already be locked by the caller's transaction.
func applyItemStock(tx *gorm.DB, item *models.ClaimItem, direction int) error {
	var pd models.ProductDetail
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("ProductBase").
		First(&pd, "id = ?", item.ProductDetailID).Error; err != nil {
		return err
	}

	in := item.ItemType == models.ClaimItemClaimed
	if direction < 0 {
		in = !in
	}
	if in {
		if !pd.IncreaseStock(item.QuantityDecimal) {
			return validationf("could not return %s of %s to stock", item.QuantityDecimal, pd.ProductBase.Name)
		}
	} else {
		if !pd.DecreaseStock(item.QuantityDecimal) {
			return validationf("not enough stock of %s: available %s", pd.ProductBase.Name, pd.Stock)
		}
	}
	return tx.Model(&models.ProductDetail{}).Where("id = ?", pd.ID).
		Update("stock", pd.Stock).Error
}

// ProcessPending walks every AWAITING_PROCESSING claim for the user and
// applies its stock adjustments: CLAIMED items come back in, EXCHANGED items
// go out, and the claim flips to COMPLETED. Each claim is its own database
// transaction, so a failure on one claim leaves earlier claims committed.
func (s *ClaimService) ProcessPending(userID uuid.UUID) (int, []error) {
	var claims []models.Claim
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.ClaimStatusAwaitingProcessing).
		Preload("Items").
		Order("claim_date ASC").
		Find(&claims).Error; err != nil {
		return 0, []error{err}
	}

	processed := 0
	var failures []error
	for i := range claims {
		claim := &claims[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			for j := range claim.Items {
				if err := applyItemStock(tx, &claim.Items[j], +1); err != nil {
					return err
				}
			}
			return tx.Model(&models.Claim{}).Where("id = ?", claim.ID).
				Update("status", models.ClaimStatusCompleted).Error
		})
		if err != nil {
			log.Printf("Claim processing: claim %s failed: %v", claim.ID, err)
			failures = append(failures, fmt.Errorf("claim %s: %w", claim.ID, err))
			continue
		}
		processed++
	}
	return processed, failures
}

// Delete removes a claim. A claim that never reached COMPLETED has not
// touched stock and is simply deleted; reversing a COMPLETED claim replays
// the inverse of each item's stock effect first.
func (s *ClaimService) Delete(userID, claimID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var claim models.Claim
		if err := tx.Preload("Items").
			Where("user_id = ?", userID).
			First(&claim, "id = ?", claimID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationf("claim not found")
			}
			return err
		}

		if claim.Status == models.ClaimStatusCompleted {
			for i := range claim.Items {
				if err := applyItemStock(tx, &claim.Items[i], -1); err != nil {
					return err
				}
			}
		}

		if err := tx.Where("claim_id = ?", claim.ID).Delete(&models.ClaimItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&claim).Error
	})
}
