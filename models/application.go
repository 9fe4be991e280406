package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is a request to join an event hosted by another user.
type Application struct {
	ID          string            `json:"id" db:"id"`
	EventID     string            `json:"eventId" db:"event_id"`
	ApplicantID string            `json:"applicantId" db:"applicant_id"`
	PartnerID   *string           `json:"partnerId,omitempty" db:"partner_id"`
	Status      ApplicationStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time         `json:"updatedAt" db:"updated_at"`
	ApprovedAt  *time.Time        `json:"approvedAt,omitempty" db:"approved_at"`
}
