package models

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse wraps the authenticated identity.
type LoginResponse struct {
	User User `json:"user"`
}

// ApproveRequest is the body of PUT /users/{id}/approve.
type ApproveRequest struct {
	Role     Role   `json:"role" validate:"required"`
	District string `json:"district"`
}

// ToUser converts a registration body to a pending user.
func (r RegisterRequest) ToUser() User {
	return User{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    r.Phone,
		Role:     r.Role,
		Status:   StatusPending,
	}
}
