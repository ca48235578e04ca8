package scholar

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is a regular applicant account
	RoleUser UserRole = "user"
	// RoleModerator can manage scholarships and reviews
	RoleModerator UserRole = "moderator"
	// RoleAdmin has full management access
	RoleAdmin UserRole = "admin"
)

// User is the user model, keyed by email.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string         `bun:"email,notnull,unique" json:"email,omitempty"`
	Name          string         `bun:"name" json:"name,omitempty"`
	Phone         string         `bun:"phone_number" json:"phone_number,omitempty"`
	PhotoURL      string         `bun:"photo_url" json:"photo_url,omitempty"`
	Role          UserRole       `bun:"user_role,notnull" json:"role,omitempty"`
	PasswordHash  string         `bun:"password_hash" json:"-"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// AddMetadata will append information to a metadata attribute
func (u *User) AddMetadata(key string, val any) *User {
	if u.Metadata == nil {
		u.Metadata = make(map[string]any)
	}
	u.Metadata[key] = val
	return u
}

// Scholarship is a posted scholarship offering.
type Scholarship struct {
	bun.BaseModel       `bun:"table:scholarships,alias:sch"`
	ID                  uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ScholarshipName     string     `bun:"scholarship_name,notnull" json:"scholarship_name,omitempty"`
	UniversityName      string     `bun:"university_name,notnull" json:"university_name,omitempty"`
	UniversityCountry   string     `bun:"university_country" json:"university_country,omitempty"`
	UniversityCity      string     `bun:"university_city" json:"university_city,omitempty"`
	UniversityRank      int        `bun:"university_rank" json:"university_rank,omitempty"`
	SubjectCategory     string     `bun:"subject_category" json:"subject_category,omitempty"`
	SubjectName         string     `bun:"subject_name" json:"subject_name,omitempty"`
	ScholarshipCategory string     `bun:"scholarship_category" json:"scholarship_category,omitempty"`
	Degree              string     `bun:"degree" json:"degree,omitempty"`
	TuitionFees         float64    `bun:"tuition_fees" json:"tuition_fees,omitempty"`
	ApplicationFees     float64    `bun:"application_fees,notnull" json:"application_fees"`
	ServiceCharge       float64    `bun:"service_charge" json:"service_charge,omitempty"`
	ApplicationDeadline string     `bun:"application_deadline" json:"application_deadline,omitempty"`
	PostDate            *time.Time `bun:"post_date,nullzero" json:"post_date,omitempty"`
	PostedBy            string     `bun:"posted_by" json:"posted_by,omitempty"`
	ImageURL            string     `bun:"image_url" json:"image_url,omitempty"`
	CreatedAt           *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt           *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt           *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Review is a user review of a scholarship.
type Review struct {
	bun.BaseModel  `bun:"table:reviews,alias:rev"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ScholarshipID  uuid.UUID  `bun:"scholarship_id,notnull,type:uuid" json:"scholarship_id,omitempty"`
	UniversityName string     `bun:"university_name" json:"university_name,omitempty"`
	UserEmail      string     `bun:"user_email,notnull" json:"user_email,omitempty"`
	UserName       string     `bun:"user_name" json:"user_name,omitempty"`
	UserImage      string     `bun:"user_image" json:"user_image,omitempty"`
	Rating         float64    `bun:"rating,notnull" json:"rating"`
	Comment        string     `bun:"comment" json:"comment,omitempty"`
	ReviewDate     *time.Time `bun:"review_date,nullzero" json:"review_date,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// ApplicationStatus is the lifecycle state of an application
type ApplicationStatus = string

const (
	// ApplicationPending is the initial status
	ApplicationPending ApplicationStatus = "pending"
	// ApplicationProcessing means the application is being reviewed
	ApplicationProcessing ApplicationStatus = "processing"
	// ApplicationCompleted is a finalized application
	ApplicationCompleted ApplicationStatus = "completed"
	// ApplicationRejected is a rejected application
	ApplicationRejected ApplicationStatus = "rejected"
)

// AppliedScholarship records a user's application to a scholarship.
type AppliedScholarship struct {
	bun.BaseModel       `bun:"table:applied_scholarships,alias:app"`
	ID                  uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ScholarshipID       uuid.UUID  `bun:"scholarship_id,notnull,type:uuid" json:"scholarship_id,omitempty"`
	UserEmail           string     `bun:"user_email,notnull" json:"user_email,omitempty"`
	UserName            string     `bun:"user_name" json:"user_name,omitempty"`
	UniversityName      string     `bun:"university_name" json:"university_name,omitempty"`
	ScholarshipCategory string     `bun:"scholarship_category" json:"scholarship_category,omitempty"`
	SubjectCategory     string     `bun:"subject_category" json:"subject_category,omitempty"`
	Degree              string     `bun:"degree" json:"degree,omitempty"`
	ApplicationFees     float64    `bun:"application_fees" json:"application_fees,omitempty"`
	ServiceCharge       float64    `bun:"service_charge" json:"service_charge,omitempty"`
	Phone               string     `bun:"phone_number" json:"phone_number,omitempty"`
	Address             string     `bun:"address" json:"address,omitempty"`
	Gender              string     `bun:"gender" json:"gender,omitempty"`
	SSCResult           string     `bun:"ssc_result" json:"ssc_result,omitempty"`
	HSCResult           string     `bun:"hsc_result" json:"hsc_result,omitempty"`
	StudyGap            string     `bun:"study_gap" json:"study_gap,omitempty"`
	Status              string     `bun:"status,notnull,default:'pending'" json:"status,omitempty"`
	CreatedAt           *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt           *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt           *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
