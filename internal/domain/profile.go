package domain

import "time"

// IdentityType enumerates accepted identity document categories.
type IdentityType string

const (
	IdentityTypeKTP      IdentityType = "KTP"
	IdentityTypeSIM      IdentityType = "SIM"
	IdentityTypePassport IdentityType = "PASSPORT"
)

// Valid reports whether the identity type is one of the accepted categories.
func (t IdentityType) Valid() bool {
	switch t {
	case IdentityTypeKTP, IdentityTypeSIM, IdentityTypePassport:
		return true
	}
	return false
}

// Profile holds the identity document details captured at registration.
// It is created in the same transaction as its owning User.
type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	IdentityType   IdentityType `json:"identity_type"`
	IdentityNumber string       `json:"identity_number"`
	Address        string       `json:"address"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
