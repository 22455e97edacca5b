package localstore

import "github.com/Ipeter02/ccapsystemsynod/internal/models"

// SeedAdminID is the id of the built-in super administrator.
const SeedAdminID = "sa_root"

func seedUsers() []models.User {
	return []models.User{
		{
			ID:       SeedAdminID,
			Name:     "System Super Admin",
			Email:    "admin@ccap.org",
			Phone:    "+265999123456",
			Role:     models.RoleSuperAdmin,
			Avatar:   "https://ui-avatars.com/api/?name=Super+Admin&background=4f46e5&color=fff",
			Position: "System Administrator",
			Status:   models.StatusActive,
			Password: "password123",
		},
	}
}

func seedDepartments() []models.Department {
	return []models.Department{
		{ID: "Education", Name: "Education", Head: "Rev. John Banda", Description: "Managing synod schools and universities."},
		{ID: "Health", Name: "Health", Head: "Dr. Mary Phiri", Description: "Overseeing mission hospitals and clinics."},
		{ID: "Evangelism", Name: "Evangelism", Head: "Rev. Peter Moyo", Description: "Spreading the gospel across the region."},
		{ID: "Finance", Name: "Finance", Head: "Mr. James Chirwa", Description: "Managing synod resources and assets."},
		{ID: "Youth", Name: "Youth", Head: "Pastor Alice Gondwe", Description: "Empowering the next generation."},
		{ID: "Women", Name: "Women's Guild", Head: "Mrs. Grace K", Description: "Spiritual growth for women."},
	}
}

func seedLocations() []models.ChurchLocation {
	return []models.ChurchLocation{
		{ID: "l1", Name: "St. Andrews Church", District: "Mzuzu City", AdminID: "la1", Address: "Mzuzu City Center"},
		{ID: "l2", Name: "Ekwendeni Mission", District: "Mzimba", AdminID: "la2", Address: "Ekwendeni"},
		{ID: "l3", Name: "Livingstonia Mission", District: "Rumphi", AdminID: "la3", Address: "Khondowe"},
		{ID: "l19", Name: "Bandawe Mission", District: "Nkhata Bay", AdminID: "la19", Address: "Bandawe"},
		{ID: "l24", Name: "Karonga Boma CCAP", District: "Karonga", AdminID: "la24", Address: "Karonga Boma"},
		{ID: "l32", Name: "Likoma CCAP", District: "Likoma", AdminID: "la32", Address: "Likoma Island"},
	}
}

func seedAnnouncements() []models.Announcement {
	return []models.Announcement{
		{ID: "1", DepartmentID: "Education", Title: "School Inspections", Message: "All district admins to submit school reports.", MeetingTime: "Next Monday, 10:00 AM", Author: "Rev. John Banda", Date: "2023-10-24"},
		{ID: "2", DepartmentID: "Health", Title: "Medicine Supply", Message: "New batch of supplies arriving at Ekwendeni Hospital.", Author: "Dr. Mary Phiri", Date: "2023-10-23"},
	}
}

func seedGallery() []models.GalleryImage {
	return []models.GalleryImage{
		{ID: "1", URL: "https://picsum.photos/800/600?random=10", Caption: "Synod Headquarters", Category: "Buildings"},
		{ID: "2", URL: "https://picsum.photos/800/600?random=11", Caption: "Youth Choir Performance", Category: "Events"},
	}
}

func seedSubscribers() []models.Subscriber {
	return []models.Subscriber{
		{ID: "s1", Email: "member@congregation.com", DateJoined: "2023-09-10"},
	}
}

func seedCampaigns() []models.NewsletterCampaign {
	return []models.NewsletterCampaign{
		{ID: "c1", Subject: "October Monthly Update", Content: "Greetings in the name of our Lord...", SentDate: "2023-10-01", RecipientCount: 150, Status: models.CampaignSent},
	}
}

func (s *Store) seedChats() []models.ChatMessage {
	return []models.ChatMessage{
		{
			ID:        "1",
			UserID:    SeedAdminID,
			UserName:  "System Super Admin",
			Content:   "Welcome to the new CCAP Livingstonia Synod Management System.",
			Timestamp: s.now().UnixMilli(),
			Role:      models.RoleSuperAdmin,
		},
	}
}
