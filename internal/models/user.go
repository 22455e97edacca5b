package models

import (
	"math"
	"strings"
	"time"
)

// Role represents the access level of a synod account.
type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleDistrictAdmin Role = "DISTRICT_ADMIN"
	RoleLocalAdmin    Role = "LOCAL_ADMIN"
	RolePastor        Role = "PASTOR"
	RoleStaff         Role = "STAFF"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleDistrictAdmin, RoleLocalAdmin, RolePastor, RoleStaff:
		return true
	}
	return false
}

// IsAdmin reports whether r may run account lifecycle actions.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleDistrictAdmin || r == RoleLocalAdmin
}

// SelfRegistered returns the role a self-registering account starts with. Admin roles are only
// granted through approval, so they fall back to PASTOR along with an empty role.
func (r Role) SelfRegistered() Role {
	if r == "" || r.IsAdmin() {
		return RolePastor
	}
	return r
}

// Status is the account lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusActive || s == StatusRejected
}

// GracePeriod is the advisory window a rejected account stays listed before an admin may purge it.
const GracePeriod = 72 * time.Hour

// User is the identity and lifecycle record shared by the local store and the remote service.
type User struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Email         string     `db:"email" json:"email"`
	Phone         string     `db:"phone" json:"phone"`
	Role          Role       `db:"role" json:"role"`
	Status        Status     `db:"status" json:"status,omitempty"`
	Department    string     `db:"department" json:"department,omitempty"`
	District      string     `db:"district" json:"district,omitempty"`
	Location      string     `db:"location" json:"location,omitempty"`
	Avatar        string     `db:"avatar" json:"avatar,omitempty"`
	Position      string     `db:"position" json:"position,omitempty"`
	MeetingTime   string     `db:"meeting_time" json:"meetingTime,omitempty"`
	Password      string     `db:"password" json:"password,omitempty"`
	LastLogin     *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	RejectionDate *time.Time `db:"rejection_date" json:"rejectionDate,omitempty"`
}

// SameEmail compares emails case-insensitively.
func (u User) SameEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}

// Public returns a copy safe to hand out over the wire.
func (u User) Public() User {
	u.Password = ""
	return u
}

// GraceRemaining returns how much of window is left since rejectedAt, floored at zero.
func GraceRemaining(rejectedAt *time.Time, now time.Time, window time.Duration) time.Duration {
	if rejectedAt == nil {
		return 0
	}
	left := window - now.Sub(*rejectedAt)
	if left < 0 {
		return 0
	}
	return left
}

// GraceHoursRemaining is the countdown shown next to rejected accounts.
func (u User) GraceHoursRemaining(now time.Time) float64 {
	hours := GraceRemaining(u.RejectionDate, now, GracePeriod).Hours()
	return math.Max(0, hours)
}

// GraceExpired reports whether a rejected account has outlived window.
func (u User) GraceExpired(now time.Time, window time.Duration) bool {
	return u.Status == StatusRejected && u.RejectionDate != nil && GraceRemaining(u.RejectionDate, now, window) == 0
}

// FindUser returns the index of the user with id, or -1.
func FindUser(users []User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

// FindUserByEmail returns the index of the user whose email matches case-insensitively, or -1.
func FindUserByEmail(users []User, email string) int {
	for i := range users {
		if users[i].SameEmail(email) {
			return i
		}
	}
	return -1
}
