package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ipeter02/ccapsystemsynod/internal/models"
	appErrors "github.com/Ipeter02/ccapsystemsynod/pkg/errors"
	"github.com/Ipeter02/ccapsystemsynod/pkg/middleware/requestid"
)

// RemoteRepository is the adapter for the remote synod service. Every call maps to one verb and path
// and fails on transport errors, non-2xx statuses or undecodable bodies.
type RemoteRepository struct {
	baseURL string
	client  *http.Client
}

// NewRemoteRepository constructs the adapter. A non-positive timeout falls back to ten seconds.
func NewRemoteRepository(baseURL string, timeout time.Duration) *RemoteRepository {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL reports the configured service root.
func (r *RemoteRepository) BaseURL() string {
	return r.baseURL
}

func (r *RemoteRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *RemoteRepository) RegisterUser(ctx context.Context, user models.User) error {
	body := models.RegisterRequest{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Password: user.Password,
		Phone:    user.Phone,
		Role:     user.Role,
	}
	return r.do(ctx, http.MethodPost, "/register", body, nil)
}

func (r *RemoteRepository) Login(ctx context.Context, email, password string) (*models.User, error) {
	var resp models.LoginResponse
	if err := r.do(ctx, http.MethodPost, "/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.User.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrRemoteUnavailable, "login response carried no user")
	}
	return &resp.User, nil
}

func (r *RemoteRepository) ApproveUser(ctx context.Context, id string, role models.Role, district string) error {
	return r.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/approve", models.ApproveRequest{Role: role, District: district}, nil)
}

func (r *RemoteRepository) RejectUser(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/reject", nil, nil)
}

func (r *RemoteRepository) DeleteUser(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

// UpdateUser has no remote endpoint.
func (r *RemoteRepository) UpdateUser(context.Context, models.User) error {
	return appErrors.Clone(appErrors.ErrUnsupportedRemote, "profile updates are not available on the remote service")
}

func (r *RemoteRepository) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var list []models.Announcement
	if err := r.do(ctx, http.MethodGet, "/announcements", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *RemoteRepository) CreateAnnouncement(ctx context.Context, a models.Announcement) error {
	return r.do(ctx, http.MethodPost, "/announcements", a, nil)
}

// UpdateAnnouncement has no remote endpoint.
func (r *RemoteRepository) UpdateAnnouncement(context.Context, models.Announcement) error {
	return appErrors.Clone(appErrors.ErrUnsupportedRemote, "announcement edits are not available on the remote service")
}

func (r *RemoteRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/announcements/"+url.PathEscape(id), nil, nil)
}

func (r *RemoteRepository) ListLocations(ctx context.Context) ([]models.ChurchLocation, error) {
	var list []models.ChurchLocation
	if err := r.do(ctx, http.MethodGet, "/locations", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *RemoteRepository) CreateLocation(ctx context.Context, l models.ChurchLocation) error {
	return r.do(ctx, http.MethodPost, "/locations", l, nil)
}

// DeleteLocation has no remote endpoint.
func (r *RemoteRepository) DeleteLocation(context.Context, string) error {
	return appErrors.Clone(appErrors.ErrUnsupportedRemote, "location removal is not available on the remote service")
}

func (r *RemoteRepository) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return unavailable(err, fmt.Sprintf("build %s %s", method, path))
	}
	req.Header.Set("Accept", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return unavailable(err, fmt.Sprintf("%s %s failed", method, path))
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return unavailable(err, fmt.Sprintf("read %s %s", method, path))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return unavailable(err, fmt.Sprintf("decode %s %s", method, path))
	}
	return nil
}

// typedRemoteCodes are surfaced as themselves when the service reports them in an error body.
var typedRemoteCodes = map[string]bool{
	appErrors.ErrDuplicateEmail.Code:     true,
	appErrors.ErrInvalidCredentials.Code: true,
	appErrors.ErrAccountPending.Code:     true,
	appErrors.ErrAccountRejected.Code:    true,
}

func statusError(method, path string, status int, raw []byte) error {
	var body struct {
		Error *appErrors.Error `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != nil && typedRemoteCodes[body.Error.Code] {
		if known, ok := appErrors.Lookup(body.Error.Code); ok {
			return appErrors.Clone(known, body.Error.Message)
		}
	}
	if path == "/login" && status == http.StatusUnauthorized {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return unavailable(errors.New(http.StatusText(status)), fmt.Sprintf("%s %s returned %d", method, path, status))
}

func unavailable(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, message)
}
