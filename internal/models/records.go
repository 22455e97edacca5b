package models

// GalleryImage is a captioned photo in the synod gallery.
type GalleryImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Caption  string `json:"caption"`
	Category string `json:"category"`
}

// Subscriber is a newsletter recipient.
type Subscriber struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	DateJoined string `json:"dateJoined"`
}

// CampaignStatus tracks whether a newsletter went out.
type CampaignStatus string

const (
	CampaignSent  CampaignStatus = "Sent"
	CampaignDraft CampaignStatus = "Draft"
)

// NewsletterCampaign is one newsletter issue.
type NewsletterCampaign struct {
	ID             string         `json:"id"`
	Subject        string         `json:"subject"`
	Content        string         `json:"content"`
	SentDate       string         `json:"sentDate"`
	RecipientCount int            `json:"recipientCount"`
	Status         CampaignStatus `json:"status"`
}

// ChatMessage is a post in the staff chat. Timestamp is in Unix milliseconds.
type ChatMessage struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	Role      Role   `json:"role"`
}

// Department is a synod department. Users reference it by id without referential integrity.
type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Head        string `json:"head"`
	Description string `json:"description"`
}

// Identifier is implemented by every record kept in an id-keyed collection.
type Identifier interface {
	Key() string
}

func (u User) Key() string               { return u.ID }
func (a Announcement) Key() string       { return a.ID }
func (l ChurchLocation) Key() string     { return l.ID }
func (g GalleryImage) Key() string       { return g.ID }
func (s Subscriber) Key() string         { return s.ID }
func (c NewsletterCampaign) Key() string { return c.ID }
func (m ChatMessage) Key() string        { return m.ID }
func (d Department) Key() string         { return d.ID }
