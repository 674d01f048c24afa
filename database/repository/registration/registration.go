package regRepo

import "wsid/models"

// RegistrationRepository stores the temp records backing the OTP
// registration workflow, keyed by email.
type RegistrationRepository interface {
	// GetByEmail retrieves the pending record, or (nil, nil) when absent.
	GetByEmail(email string) (*models.PendingRegistration, error)
	// Upsert replaces any existing record for the email with the given one.
	Upsert(rec *models.PendingRegistration) error
	// SetFields applies a partial update to the record for the email.
	SetFields(email string, fields map[string]interface{}) error
	// DeleteByEmail removes the pending record.
	DeleteByEmail(email string) error
}
