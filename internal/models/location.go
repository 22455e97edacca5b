package models

// ChurchLocation is a congregation within a district.
type ChurchLocation struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name" validate:"required"`
	District string `db:"district" json:"district"`
	AdminID  string `db:"admin_id" json:"adminId"`
	Address  string `db:"address" json:"address"`
}
