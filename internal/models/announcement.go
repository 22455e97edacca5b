package models

// Announcement is a departmental notice shown on the dashboard.
type Announcement struct {
	ID           string `db:"id" json:"id"`
	DepartmentID string `db:"department_id" json:"departmentId"`
	Title        string `db:"title" json:"title" validate:"required"`
	Message      string `db:"message" json:"message"`
	MeetingTime  string `db:"meeting_time" json:"meetingTime,omitempty"`
	Author       string `db:"author" json:"author"`
	Date         string `db:"date" json:"date"`
}
