package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
)

const sessionCookieName = "club_session"

type ctxKey int

const userKey ctxKey = 0

func sessionTTL() time.Duration {
	if h := os.Getenv("SESSION_TTL_HOURS"); h != "" {
		if n, err := strconv.Atoi(h); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return 24 * time.Hour
}

// currentUser returns the authenticated user attached by the middleware.
func currentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userKey).(*models.User)
	return u
}

func loadSessionUser(r *http.Request) *models.User {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	var sess models.Session
	if err := db.Conn().Where("token = ?", c.Value).First(&sess).Error; err != nil {
		return nil
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil
	}
	var user models.User
	if err := db.Conn().First(&user, sess.UserID).Error; err != nil || !user.IsActive {
		return nil
	}
	return &user
}

// RequireRole gates a subtree to the given roles and attaches the user to the
// request context.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := loadSessionUser(r)
			if user == nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !allowed[user.Role] {
				writeError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// RequireAdmin gates admin-only routes.
var RequireAdmin = RequireRole(models.RoleAdmin)

// RequireStaff gates routes shared by admins and coaches.
var RequireStaff = RequireRole(models.RoleAdmin, models.RoleCoach)

// RequireAthlete gates the athlete self-service routes.
var RequireAthlete = RequireRole(models.RoleAthlete)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session cookie.
func Login(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}

		var user models.User
		err := db.Conn().Where("email = ?", req.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) ||
			(err == nil && bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if !user.IsActive {
			writeError(w, http.StatusForbidden, "account disabled")
			return
		}

		sess := models.Session{
			Token:     uuid.NewString(),
			UserID:    user.ID,
			ExpiresAt: time.Now().Add(sessionTTL()),
		}
		if err := db.Conn().Create(&sess).Error; err != nil {
			writeServiceError(w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    sess.Token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  sess.ExpiresAt,
		})
		logger.Info("login", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
		writeJSON(w, http.StatusOK, map[string]any{
			"id":         user.ID,
			"email":      user.Email,
			"role":       user.Role,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"athlete_id": user.AthleteID,
		})
	}
}

// Logout drops the server-side session and clears the cookie.
func Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		db.Conn().Where("token = ?", c.Value).Delete(&models.Session{})
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
	w.WriteHeader(http.StatusNoContent)
}

// HashPassword wraps bcrypt with the cost used across the app.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), 12)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
