package handlers

import (
	"crypto/rand"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/events"
	"github.com/sandaclub/hub/internal/models"
	"github.com/sandaclub/hub/internal/services"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`

	DateOfBirth string   `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Gender      string   `json:"gender,omitempty"`
	WeightKG    *float64 `json:"weight_kg,omitempty"`
	HeightCM    *float64 `json:"height_cm,omitempty"`

	WeightCategory    string `json:"weight_category,omitempty"`
	BeltLevel         string `json:"belt_level,omitempty"`
	YearsOfExperience int    `json:"years_of_experience,omitempty"`

	EmergencyContactName  string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string `json:"emergency_contact_phone,omitempty"`
}

// Register creates a pending athlete plus their login account. Membership
// stays pending until an admin approves it.
func Register(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}

		email, ok := services.NormEmail(req.Email)
		if !ok || email == "" {
			writeError(w, http.StatusBadRequest, "valid email required")
			return
		}
		if req.FirstName == "" || req.LastName == "" {
			writeError(w, http.StatusBadRequest, "first and last name required")
			return
		}
		if len(req.Password) < 8 {
			writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
			return
		}

		var dob *time.Time
		if req.DateOfBirth != "" {
			d, err := time.Parse("2006-01-02", req.DateOfBirth)
			if err != nil {
				writeError(w, http.StatusBadRequest, "date_of_birth is not YYYY-MM-DD")
				return
			}
			dob = &d
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		athlete := models.Athlete{
			FirstName:             req.FirstName,
			LastName:              req.LastName,
			Email:                 email,
			Phone:                 req.Phone,
			Address:               req.Address,
			City:                  req.City,
			DateOfBirth:           dob,
			Gender:                req.Gender,
			WeightKG:              req.WeightKG,
			HeightCM:              req.HeightCM,
			WeightCategory:        req.WeightCategory,
			BeltLevel:             req.BeltLevel,
			YearsOfExperience:     req.YearsOfExperience,
			EmergencyContactName:  req.EmergencyContactName,
			EmergencyContactPhone: req.EmergencyContactPhone,
			MembershipStatus:      models.MembershipPending,
		}

		err = db.Conn().Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&athlete).Error; err != nil {
				return err
			}
			user := models.User{
				Email:        email,
				PasswordHash: hash,
				Role:         models.RoleAthlete,
				FirstName:    req.FirstName,
				LastName:     req.LastName,
				IsActive:     true,
				AthleteID:    &athlete.ID,
			}
			return tx.Create(&user).Error
		})
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				writeError(w, http.StatusConflict, "an account with this email already exists")
				return
			}
			writeServiceError(w, err)
			return
		}

		logger.Info("athlete registered", zap.Uint("athlete_id", athlete.ID))
		writeJSON(w, http.StatusCreated, athlete)
	}
}

// AdminListAthletes returns all athletes, optionally filtered by
// ?status=pending|approved|rejected.
func AdminListAthletes(w http.ResponseWriter, r *http.Request) {
	q := db.Conn().Order("created_at desc")
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("membership_status = ?", status)
	}
	var athletes []models.Athlete
	if err := q.Find(&athletes).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, athletes)
}

// AdminGetAthlete returns one athlete with documents and payments preloaded.
func AdminGetAthlete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad athlete id")
		return
	}
	var athlete models.Athlete
	if err := db.Conn().Preload("Documents").Preload("Payments").First(&athlete, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, athlete)
}

type approvalRequest struct {
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
}

// AdminApproveAthlete approves or rejects a pending membership. Approval
// assigns the member code used on the card QR.
func AdminApproveAthlete(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "bad athlete id")
			return
		}
		var req approvalRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}
		if !req.Approved && req.Reason == "" {
			writeError(w, http.StatusBadRequest, "rejection requires a reason")
			return
		}

		var athlete models.Athlete
		err := db.Conn().Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&athlete, id).Error; err != nil {
				return err
			}
			if req.Approved {
				athlete.MembershipStatus = models.MembershipApproved
				athlete.RejectionReason = ""
				if athlete.MemberCode == "" {
					athlete.MemberCode = newMemberCode()
				}
			} else {
				athlete.MembershipStatus = models.MembershipRejected
				athlete.RejectionReason = req.Reason
			}
			return tx.Save(&athlete).Error
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if req.Approved && events.OnAthleteApproved != nil {
			events.OnAthleteApproved(athlete)
		}
		logger.Info("membership decision",
			zap.Uint("athlete_id", athlete.ID),
			zap.Bool("approved", req.Approved))
		writeJSON(w, http.StatusOK, athlete)
	}
}

// athleteUpdate carries the editable profile fields. Pointers distinguish
// "not sent" from "clear this"; nothing here can touch membership status.
type athleteUpdate struct {
	Phone                 *string  `json:"phone,omitempty"`
	Address               *string  `json:"address,omitempty"`
	City                  *string  `json:"city,omitempty"`
	WeightKG              *float64 `json:"weight_kg,omitempty"`
	HeightCM              *float64 `json:"height_cm,omitempty"`
	WeightCategory        *string  `json:"weight_category,omitempty"`
	BeltLevel             *string  `json:"belt_level,omitempty"`
	YearsOfExperience     *int     `json:"years_of_experience,omitempty"`
	EmergencyContactName  *string  `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string  `json:"emergency_contact_phone,omitempty"`
}

func applyAthleteUpdate(a *models.Athlete, u athleteUpdate) {
	if u.Phone != nil {
		a.Phone = *u.Phone
	}
	if u.Address != nil {
		a.Address = *u.Address
	}
	if u.City != nil {
		a.City = *u.City
	}
	if u.WeightKG != nil {
		a.WeightKG = u.WeightKG
	}
	if u.HeightCM != nil {
		a.HeightCM = u.HeightCM
	}
	if u.WeightCategory != nil {
		a.WeightCategory = *u.WeightCategory
	}
	if u.BeltLevel != nil {
		a.BeltLevel = *u.BeltLevel
	}
	if u.YearsOfExperience != nil {
		a.YearsOfExperience = *u.YearsOfExperience
	}
	if u.EmergencyContactName != nil {
		a.EmergencyContactName = *u.EmergencyContactName
	}
	if u.EmergencyContactPhone != nil {
		a.EmergencyContactPhone = *u.EmergencyContactPhone
	}
}

// AdminUpdateAthlete edits an athlete's profile fields.
func AdminUpdateAthlete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad athlete id")
		return
	}
	var u athleteUpdate
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	var athlete models.Athlete
	if err := db.Conn().First(&athlete, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	applyAthleteUpdate(&athlete, u)
	if err := db.Conn().Save(&athlete).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, athlete)
}

// MyProfile returns the calling athlete's own record.
func MyProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.AthleteID == nil {
		writeError(w, http.StatusNotFound, "no athlete record for this account")
		return
	}
	var athlete models.Athlete
	if err := db.Conn().First(&athlete, *user.AthleteID).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, athlete)
}

// UpdateMyProfile lets an athlete edit their own contact and physical fields.
func UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.AthleteID == nil {
		writeError(w, http.StatusNotFound, "no athlete record for this account")
		return
	}
	var u athleteUpdate
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	var athlete models.Athlete
	if err := db.Conn().First(&athlete, *user.AthleteID).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	applyAthleteUpdate(&athlete, u)
	if err := db.Conn().Save(&athlete).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, athlete)
}

// newMemberCode generates a card code like MBR-493021.
func newMemberCode() string {
	const digits = "0123456789"
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return "MBR-" + string(b)
}
