package models

import (
	"errors"
	"time"
)

// ErrInvalidTransition is returned when a lifecycle event does not apply to the account's state.
var ErrInvalidTransition = errors.New("invalid account transition")

// Approve activates a pending or rejected account with the admin supplied role and district.
// Approving an active account only reassigns role and district.
func (u *User) Approve(role Role, district string) {
	u.Status = StatusActive
	u.Role = role
	u.District = district
	u.RejectionDate = nil
}

// Reject moves a pending account to rejected and stamps the rejection time. It reports false when the
// account was already rejected.
func (u *User) Reject(now time.Time) (bool, error) {
	switch u.Status {
	case StatusRejected:
		return false, nil
	case StatusPending, "":
		ts := now.UTC()
		u.Status = StatusRejected
		u.RejectionDate = &ts
		return true, nil
	default:
		return false, ErrInvalidTransition
	}
}

// CanLogin maps the account state to the login outcome for a correct password.
func (u User) CanLogin() error {
	switch u.Status {
	case StatusActive:
		return nil
	case StatusPending:
		return ErrPending
	case StatusRejected:
		return ErrRejected
	default:
		return ErrPending
	}
}

var (
	ErrPending  = errors.New("account pending approval")
	ErrRejected = errors.New("account rejected")
)
