package domain

import "time"

// UserType classifies a donor within the university program.
type UserType string

const (
	UserTypeStudent  UserType = "student"
	UserTypeEmployee UserType = "employee"
	UserTypeExternal UserType = "external"
)

// Valid reports whether the value is one of the known donor categories.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeEmployee, UserTypeExternal:
		return true
	}
	return false
}

// Label returns the display name of the category.
func (t UserType) Label() string {
	switch t {
	case UserTypeStudent:
		return "Студент"
	case UserTypeEmployee:
		return "Сотрудник"
	case UserTypeExternal:
		return "Внешний донор"
	default:
		return string(t)
	}
}

// NoShowReason is the self-reported reason for missing a donation day.
type NoShowReason string

const (
	NoShowMedotved  NoShowReason = "medotved"
	NoShowPersonal  NoShowReason = "personal"
	NoShowUnwilling NoShowReason = "unwilling"
)

// Valid reports whether the value is one of the accepted reason codes.
func (r NoShowReason) Valid() bool {
	switch r {
	case NoShowMedotved, NoShowPersonal, NoShowUnwilling:
		return true
	}
	return false
}

// Donor level thresholds by total donation count.
const (
	LevelRegular  = 3
	LevelSeasoned = 10
	LevelActive   = 25
	LevelHonorary = 40
)

// DonorLevel returns the display name of the level earned by the given
// donation count.
func DonorLevel(total int) string {
	switch {
	case total >= LevelHonorary:
		return "🏆 Почетный донор России"
	case total >= LevelActive:
		return "🥇 Активный донор"
	case total >= LevelSeasoned:
		return "🥈 Опытный донор"
	case total >= LevelRegular:
		return "🥉 Постоянный донор"
	default:
		return "🌟 Начинающий донор"
	}
}

// User is a registered participant of the donor program. A row exists only
// after the person completed the consent step (or was imported by an admin).
type User struct {
	ID                 int64     `db:"id"`
	TelegramID         int64     `db:"telegram_id"`
	Phone              string    `db:"phone"`
	FullName           string    `db:"full_name"`
	UserType           UserType  `db:"user_type"`
	GroupNumber        *string   `db:"group_number"`
	ConsentGiven       bool      `db:"consent_given"`
	IsAdmin            bool      `db:"is_admin"`
	BoneMarrowRegistry bool      `db:"bone_marrow_registry"`
	CreatedAt          time.Time `db:"created_at"`
}

// Group returns the group number or an empty string.
func (u *User) Group() string {
	if u.GroupNumber == nil {
		return ""
	}
	return *u.GroupNumber
}

// BloodCenter is a partner blood center. Rows are seeded reference data.
type BloodCenter struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	ShortName string `db:"short_name"`
}

// Event is a scheduled donation day at a blood center.
// Events are deactivated rather than deleted.
type Event struct {
	ID                       int64     `db:"id"`
	Date                     time.Time `db:"date"`
	BloodCenterID            int64     `db:"blood_center_id"`
	ExternalRegistrationLink *string   `db:"external_registration_link"`
	IsActive                 bool      `db:"is_active"`
	CreatedAt                time.Time `db:"created_at"`

	// CenterShortName is populated by queries that join blood_centers.
	CenterShortName string `db:"center_short_name"`
}

// EventRegistration links a user to an event. Attended stays NULL until
// attendance is recorded either way.
type EventRegistration struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	EventID      int64     `db:"event_id"`
	RegisteredAt time.Time `db:"registered_at"`
	Attended     *bool     `db:"attended"`
	NoShowReason *string   `db:"no_show_reason"`
}

// PendingSurvey is a past registration with unknown attendance, used to
// prompt the attendance survey.
type PendingSurvey struct {
	RegistrationID  int64     `db:"registration_id"`
	EventDate       time.Time `db:"event_date"`
	CenterShortName string    `db:"center_short_name"`
}

// Donation is an immutable record of a completed donation. EventID is NULL
// for donations imported from historical rosters.
type Donation struct {
	ID               int64     `db:"id"`
	UserID           int64     `db:"user_id"`
	EventID          *int64    `db:"event_id"`
	BloodCenterID    int64     `db:"blood_center_id"`
	DonationDate     time.Time `db:"donation_date"`
	BoneMarrowSample bool      `db:"bone_marrow_sample"`

	// CenterShortName is populated by queries that join blood_centers.
	CenterShortName string `db:"center_short_name"`
}

// Question is a free-form question from a user. The answer fields are set
// together exactly once.
type Question struct {
	ID                int64      `db:"id"`
	UserID            int64      `db:"user_id"`
	QuestionText      string     `db:"question_text"`
	AnswerText        *string    `db:"answer_text"`
	AnsweredByAdminID *int64     `db:"answered_by_admin_id"`
	CreatedAt         time.Time  `db:"created_at"`
	AnsweredAt        *time.Time `db:"answered_at"`
}

// Answered reports whether the question already carries an answer.
func (q *Question) Answered() bool {
	return q.AnswerText != nil
}

// InfoSection is an editable content block shown in the info menu.
type InfoSection struct {
	ID         int64     `db:"id"`
	SectionKey string    `db:"section_key"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	UpdatedAt  time.Time `db:"updated_at"`
}
