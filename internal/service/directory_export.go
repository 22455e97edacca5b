package service

import (
	"sort"
	"strings"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	"github.com/Ipeter02/ccapsystemsynod/pkg/export"
)

var directoryHeaders = []string{"Name", "Email", "Phone", "Role", "District", "Location", "Position"}

// MemberDirectory builds the printable directory of active accounts, grouped by district and sorted by
// name. An empty district keeps every district.
func MemberDirectory(users []models.User, district string) export.Dataset {
	active := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Status != models.StatusActive {
			continue
		}
		if district != "" && !strings.EqualFold(u.District, district) {
			continue
		}
		active = append(active, u)
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].District != active[j].District {
			return active[i].District < active[j].District
		}
		return strings.ToLower(active[i].Name) < strings.ToLower(active[j].Name)
	})

	rows := make([]map[string]string, 0, len(active))
	for _, u := range active {
		rows = append(rows, map[string]string{
			"Name":     u.Name,
			"Email":    u.Email,
			"Phone":    u.Phone,
			"Role":     string(u.Role),
			"District": u.District,
			"Location": u.Location,
			"Position": u.Position,
		})
	}
	return export.Dataset{Headers: directoryHeaders, Rows: rows}
}
