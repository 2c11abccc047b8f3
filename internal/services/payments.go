package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
)

// PaymentInput is the typed command for recording or correcting a payment.
// EndDate is never part of it: the stored end date is always derived from
// StartDate + MonthsCovered.
type PaymentInput struct {
	AthleteID     uint    `json:"athlete_id"`
	Amount        float64 `json:"amount"`
	MonthsCovered int     `json:"months_covered"`
	StartDate     string  `json:"start_date"` // YYYY-MM-DD
	Notes         string  `json:"notes"`
}

func (in PaymentInput) parse() (time.Time, error) {
	if in.MonthsCovered < 1 {
		return time.Time{}, fmt.Errorf("%w: months_covered must be >= 1, got %d", ErrInvalidInput, in.MonthsCovered)
	}
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start_date %q is not YYYY-MM-DD", ErrInvalidInput, in.StartDate)
	}
	return start, nil
}

// RecordPayment stores a manually recorded payment with its derived end date.
func RecordPayment(in PaymentInput, recordedBy *uint) (*models.Payment, error) {
	start, err := in.parse()
	if err != nil {
		return nil, err
	}

	var payment models.Payment
	err = db.Conn().Transaction(func(tx *gorm.DB) error {
		var athlete models.Athlete
		if err := tx.First(&athlete, in.AthleteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: athlete %d", ErrNotFound, in.AthleteID)
			}
			return err
		}
		payment = models.Payment{
			AthleteID:     in.AthleteID,
			Amount:        in.Amount,
			MonthsCovered: in.MonthsCovered,
			StartDate:     start,
			EndDate:       DerivePaymentEnd(start, in.MonthsCovered),
			Notes:         in.Notes,
			RecordedBy:    recordedBy,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdatePayment rewrites a payment record, re-deriving the end date so the
// stored row can never disagree with start + months.
func UpdatePayment(id uint, in PaymentInput, recordedBy *uint) (*models.Payment, error) {
	start, err := in.parse()
	if err != nil {
		return nil, err
	}

	var payment models.Payment
	err = db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: payment %d", ErrNotFound, id)
			}
			return err
		}
		if err := tx.First(&models.Athlete{}, in.AthleteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: athlete %d", ErrNotFound, in.AthleteID)
			}
			return err
		}
		payment.AthleteID = in.AthleteID
		payment.Amount = in.Amount
		payment.MonthsCovered = in.MonthsCovered
		payment.StartDate = start
		payment.EndDate = DerivePaymentEnd(start, in.MonthsCovered)
		payment.Notes = in.Notes
		payment.RecordedBy = recordedBy
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// DeletePayment removes a payment record.
func DeletePayment(id uint) error {
	res := db.Conn().Delete(&models.Payment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: payment %d", ErrNotFound, id)
	}
	return nil
}
