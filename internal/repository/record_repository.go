package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ipeter02/ccapsystemsynod/internal/localstore"
	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
)

// RecordRepository manages the collections that only ever live in the Local Store: departments,
// gallery, subscribers, newsletter campaigns and chat messages.
type RecordRepository struct {
	store *localstore.Store
	now   func() time.Time
	mu    sync.Mutex
}

// NewRecordRepository constructs the local-only record repository.
func NewRecordRepository(store *localstore.Store) *RecordRepository {
	return &RecordRepository{store: store, now: time.Now}
}

func (r *RecordRepository) Departments(ctx context.Context) ([]models.Department, error) {
	return r.store.Departments(ctx)
}

// SaveDepartment inserts or replaces the department with the same id.
func (r *RecordRepository) SaveDepartment(ctx context.Context, d models.Department) error {
	if strings.TrimSpace(d.ID) == "" {
		d.ID = d.Name
	}
	return r.edit(ctx, func(ctx context.Context) error {
		list, err := r.store.Departments(ctx)
		if err != nil {
			return err
		}
		return r.store.SaveDepartments(ctx, upsert(list, d))
	})
}

// DeleteDepartment removes a department. Users referencing it keep the dangling id.
func (r *RecordRepository) DeleteDepartment(ctx context.Context, id string) error {
	return r.edit(ctx, func(ctx context.Context) error {
		list, err := r.store.Departments(ctx)
		if err != nil {
			return err
		}
		kept, ok := without(list, id)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		return r.store.SaveDepartments(ctx, kept)
	})
}

func (r *RecordRepository) Gallery(ctx context.Context) ([]models.GalleryImage, error) {
	return r.store.Gallery(ctx)
}

// SaveImage replaces an image with the same id or appends a new one.
func (r *RecordRepository) SaveImage(ctx context.Context, img models.GalleryImage) (models.GalleryImage, error) {
	if img.ID == "" {
		img.ID = r.nextID()
	}
	err := r.edit(ctx, func(ctx context.Context) error {
		list, err := r.store.Gallery(ctx)
		if err != nil {
			return err
		}
		return r.store.SaveGallery(ctx, upsert(list, img))
	})
	return img, err
}

func (r *RecordRepository) DeleteImage(ctx context.Context, id string) error {
	return r.edit(ctx, func(ctx context.Context) error {
		list, err := r.store.Gallery(ctx)
		if err != nil {
			return err
		}
		kept, ok := without(list, id)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "image not found")
		}
		return r.store.SaveGallery(ctx, kept)
	})
}

func (r *RecordRepository) ClearGallery(ctx context.Context) error {
	return r.store.SaveGallery(ctx, nil)
}

func (r *RecordRepository) Subscribers(ctx context.Context) ([]models.Subscriber, error) {
	return r.store.Subscribers(ctx)
}

// Subscribe adds email to the newsletter list. It reports false when the email was already subscribed.
func (r *RecordRepository) Subscribe(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, appErrors.Clone(appErrors.ErrValidation, "email is required")
	}
	added := false
	err := r.edit(ctx, func(ctx context.Context) error {
		list, err := r.store.Subscribers(ctx)
		if err != nil {
			return err
		}
		for _, s := range list {
			if strings.EqualFold(s.Email, email) {
				return nil
			}
		}
		sub := models.Subscriber{ID: r.nextID(), Email: email, DateJoined: r.now().UTC().Format(time.DateOnly)}
		added = true
		return r.store.SaveSubscribers(ctx, append([]models.Subscriber{sub}, list...))
	})
	return added, err
}

func (r *RecordRepository) DeleteSubscriber(ctx context.Context, id string) error {
	return r.edit(ctx, func(ctx context.Context) error {
		list, err := r.store.Subscribers(ctx)
		if err != nil {
			return err
		}
		kept, ok := without(list, id)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "subscriber not found")
		}
		return r.store.SaveSubscribers(ctx, kept)
	})
}

func (r *RecordRepository) ClearSubscribers(ctx context.Context) error {
	return r.store.SaveSubscribers(ctx, nil)
}

func (r *RecordRepository) Campaigns(ctx context.Context) ([]models.NewsletterCampaign, error) {
	return r.store.Campaigns(ctx)
}

// SendNewsletter records a sent campaign addressed to every current subscriber.
func (r *RecordRepository) SendNewsletter(ctx context.Context, subject, content string) (models.NewsletterCampaign, error) {
	var campaign models.NewsletterCampaign
	if strings.TrimSpace(subject) == "" {
		return campaign, appErrors.Clone(appErrors.ErrValidation, "subject is required")
	}
	err := r.edit(ctx, func(ctx context.Context) error {
		subs, err := r.store.Subscribers(ctx)
		if err != nil {
			return err
		}
		list, err := r.store.Campaigns(ctx)
		if err != nil {
			return err
		}
		campaign = models.NewsletterCampaign{
			ID:             r.nextID(),
			Subject:        subject,
			Content:        content,
			SentDate:       r.now().UTC().Format(time.DateOnly),
			RecipientCount: len(subs),
			Status:         models.CampaignSent,
		}
		return r.store.SaveCampaigns(ctx, append([]models.NewsletterCampaign{campaign}, list...))
	})
	return campaign, err
}

func (r *RecordRepository) DeleteCampaign(ctx context.Context, id string) error {
	return r.edit(ctx, func(ctx context.Context) error {
		list, err := r.store.Campaigns(ctx)
		if err != nil {
			return err
		}
		kept, ok := without(list, id)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "campaign not found")
		}
		return r.store.SaveCampaigns(ctx, kept)
	})
}

func (r *RecordRepository) ClearCampaigns(ctx context.Context) error {
	return r.store.SaveCampaigns(ctx, nil)
}

func (r *RecordRepository) Chats(ctx context.Context) ([]models.ChatMessage, error) {
	return r.store.Chats(ctx)
}

// PostChat appends a message, stamping id and timestamp when missing.
func (r *RecordRepository) PostChat(ctx context.Context, msg models.ChatMessage) (models.ChatMessage, error) {
	if msg.ID == "" {
		msg.ID = r.nextID()
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = r.now().UnixMilli()
	}
	err := r.edit(ctx, func(ctx context.Context) error {
		list, err := r.store.Chats(ctx)
		if err != nil {
			return err
		}
		return r.store.SaveChats(ctx, append(list, msg))
	})
	return msg, err
}

func (r *RecordRepository) DeleteChat(ctx context.Context, id string) error {
	return r.edit(ctx, func(ctx context.Context) error {
		list, err := r.store.Chats(ctx)
		if err != nil {
			return err
		}
		kept, ok := without(list, id)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "message not found")
		}
		return r.store.SaveChats(ctx, kept)
	})
}

func (r *RecordRepository) ClearChats(ctx context.Context) error {
	return r.store.SaveChats(ctx, nil)
}

func (r *RecordRepository) edit(ctx context.Context, fn func(context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx)
}

func (r *RecordRepository) nextID() string {
	return uuid.NewString()
}

func upsert[T models.Identifier](items []T, item T) []T {
	for i := range items {
		if items[i].Key() == item.Key() {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}
