package dto

import (
	"time"

	"github.com/spec-kit/enquiry-service/internal/domain"
)

// CreateEnquiryRequest is the intake form payload.
type CreateEnquiryRequest struct {
	Name          string   `json:"name" validate:"required"`
	Email         string   `json:"email" validate:"required,email"`
	Phone         string   `json:"phone" validate:"required"`
	Location      string   `json:"current_location"`
	PackageID     *string  `json:"package_id"`
	SubjectIDs    []string `json:"subject_ids"`
	TrainingMode  string   `json:"training_mode"`
	TrainingTime  string   `json:"training_time"`
	StartTime     string   `json:"start_time"`
	Profession    string   `json:"profession"`
	Qualification string   `json:"qualification"`
	Experience    string   `json:"experience"`
	Referral      string   `json:"referral"`
	Consent       bool     `json:"consent" validate:"required"`
}

// UpdateEnquiryRequest carries a partial field set; omitted fields stay
// unchanged. package_id set to "" clears the package.
type UpdateEnquiryRequest struct {
	Name          *string            `json:"name,omitempty"`
	Email         *string            `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string            `json:"phone,omitempty"`
	Location      *string            `json:"current_location,omitempty"`
	PackageID     *string            `json:"package_id,omitempty"`
	SubjectIDs    *[]string          `json:"subject_ids,omitempty"`
	TrainingMode  *string            `json:"training_mode,omitempty"`
	TrainingTime  *string            `json:"training_time,omitempty"`
	StartTime     *string            `json:"start_time,omitempty"`
	Profession    *string            `json:"profession,omitempty"`
	Qualification *string            `json:"qualification,omitempty"`
	Experience    *string            `json:"experience,omitempty"`
	Referral      *string            `json:"referral,omitempty"`
	DemoStatus    *domain.DemoStatus `json:"demo_status,omitempty"`
}

// ChangeStatusRequest moves a candidate to another pipeline stage.
type ChangeStatusRequest struct {
	EnquiryID string       `json:"enquiry_id" validate:"required"`
	NewStatus domain.Stage `json:"new_status" validate:"required"`
}

// EnquiryResponse is the full candidate record.
type EnquiryResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Location      string            `json:"current_location"`
	PackageID     *string           `json:"package_id"`
	SubjectIDs    []string          `json:"subject_ids"`
	TrainingMode  string            `json:"training_mode"`
	TrainingTime  string            `json:"training_time"`
	StartTime     string            `json:"start_time"`
	Profession    string            `json:"profession"`
	Qualification string            `json:"qualification"`
	Experience    string            `json:"experience"`
	Referral      string            `json:"referral"`
	Consent       bool              `json:"consent"`
	Stage         domain.Stage      `json:"candidate_status"`
	StageIndex    int               `json:"stage_index"`
	DemoStatus    domain.DemoStatus `json:"demo_status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// PipelineView tells the console what the caller's role may do with the
// candidate at their current stage. The full stage list is always present
// so the progress bar renders every segment regardless of role.
type PipelineView struct {
	Stages             []domain.Stage `json:"stages"`
	VisibleStages      []domain.Stage `json:"visible_stages"`
	DemoStatusEditable bool           `json:"demo_status_editable"`
	BillingAuthorized  bool           `json:"billing_authorized"`
}

// EnquiryDetailResponse pairs the record with the caller's pipeline view.
type EnquiryDetailResponse struct {
	EnquiryResponse
	Pipeline PipelineView `json:"pipeline"`
}

// StageHistoryResponse is one audited pipeline transition.
type StageHistoryResponse struct {
	ID          string       `json:"id"`
	ChangedByID *string      `json:"changed_by_id"`
	OldStage    domain.Stage `json:"old_stage"`
	NewStage    domain.Stage `json:"new_stage"`
	CreatedAt   time.Time    `json:"created_at"`
}
