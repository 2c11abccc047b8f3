package models

import "time"

// Roles for User.Role
const (
	RoleAdmin   = "admin"
	RoleCoach   = "coach"
	RoleAthlete = "athlete"
)

// User is a login account. Athletes get one on registration.
type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string
	Role         string // admin | coach | athlete
	FirstName    string
	LastName     string
	IsActive     bool

	AthleteID *uint // set when Role == athlete
}

// Session is a server-side login session (cookie carries the token).
type Session struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Token     string `gorm:"uniqueIndex;not null"`
	UserID    uint
	ExpiresAt time.Time
}

// MembershipStatus values for Athlete
const (
	MembershipPending  = "pending"
	MembershipApproved = "approved"
	MembershipRejected = "rejected"
)

type Athlete struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	FirstName string
	LastName  string
	Email     string `gorm:"uniqueIndex;not null"`
	Phone     string
	Address   string
	City      string

	DateOfBirth *time.Time
	Gender      string
	WeightKG    *float64
	HeightCM    *float64

	WeightCategory    string
	BeltLevel         string
	YearsOfExperience int

	EmergencyContactName  string
	EmergencyContactPhone string

	// pending | approved | rejected. Approval is an admin action; rejection
	// keeps the row (documents and payments stay referenced, no hard delete).
	MembershipStatus string `gorm:"index"`
	RejectionReason  string

	// Member code printed on the membership card QR. Assigned on approval.
	MemberCode string `gorm:"uniqueIndex"`

	Documents []Document
	Payments  []Payment
}

// ValidationStatus values for Document
const (
	DocPending  = "pending"
	DocApproved = "approved"
	DocRejected = "rejected"
)

type Document struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	AthleteID uint `gorm:"index"`

	// One of the catalog keys (services.RequiredDocumentTypes plus
	// "license"/"other"); "identity_card" is a legacy alias of "id_card".
	DocumentType string `gorm:"index"`

	FileName string
	FileURL  string

	// pending | approved | rejected. Approved/rejected are terminal for this
	// row; a re-attempt is a new document, not a new version.
	ValidationStatus string `gorm:"index"`
	RejectionReason  string
	ValidatedBy      *uint
	ValidatedAt      *time.Time

	ExpiryDate *time.Time
	Notes      string

	CategoryID *uint
	Category   *DocumentCategory
	Tags       []DocumentTag `gorm:"many2many:document_tag_relations"`

	Versions []DocumentVersion
	Shares   []DocumentShare
}

// DocumentVersion is an immutable snapshot. VersionNumber starts at 1 and is
// strictly increasing per document.
type DocumentVersion struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	DocumentID    uint `gorm:"index"`
	VersionNumber int
	FileName      string
	FileURL       string
	Notes         string
	UploadedBy    *uint
}

// Permission levels for DocumentShare, ordered: download implies view.
const (
	ShareView     = "view"
	ShareDownload = "download"
)

// DocumentShare grants an external party access to one document.
// One share per (document, grantee); re-sharing replaces it.
type DocumentShare struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	DocumentID      uint   `gorm:"uniqueIndex:idx_share_doc_grantee"`
	GranteeEmail    string `gorm:"uniqueIndex:idx_share_doc_grantee"`
	PermissionLevel string // view | download
	Notes           string
	SharedBy        uint
	ExpiresAt       *time.Time

	Document *Document
}

type DocumentCategory struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Name        string `gorm:"uniqueIndex"`
	Description string
	Color       string
}

type DocumentTag struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Name  string `gorm:"uniqueIndex"`
	Color string
}

// Payment is a manually recorded subscription payment.
// EndDate is always StartDate + MonthsCovered months; services derive it,
// it is never accepted from the caller.
type Payment struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	AthleteID     uint `gorm:"index"`
	Amount        float64
	MonthsCovered int
	StartDate     time.Time
	EndDate       time.Time
	Notes         string
	RecordedBy    *uint
}

type TrainingSession struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title           string
	Description     string
	SessionDate     time.Time `gorm:"index"`
	DurationMinutes int
	Location        string
	MaxParticipants int
	Level           string // beginner | intermediate | advanced | all
	CoachID         *uint
}

// AttendanceRecord: at most one per (session, athlete) — marking again
// updates the existing row.
type AttendanceRecord struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	TrainingSessionID uint `gorm:"uniqueIndex:idx_att_session_athlete"`
	AthleteID         uint `gorm:"uniqueIndex:idx_att_session_athlete"`
	Attended          bool
	Notes             string
	MarkedBy          *uint
}

// ScheduleSlot is a recurring weekly template, distinct from a dated
// TrainingSession. Overlap on the same day is a soft constraint the
// conflict checker reports and the caller may override.
type ScheduleSlot struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	DayOfWeek       string // monday..sunday
	StartTime       string // HH:MM
	DurationMinutes int
	Title           string
	Location        string
	Description     string
	Level           string
	CoachName       string
}
