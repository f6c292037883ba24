package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"citysafe/internal/models"
	"citysafe/pkg/errors"
	"citysafe/pkg/logger"
)

// Client talks to the CitySafe backend. It owns the token lifecycle: login
// and register persist the issued token, logout clears it. No operation
// retries and no explicit timeout is set; transports keep their defaults.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenStore
}

// New creates a client against baseURL, e.g. "http://localhost:8000".
func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		tokens:  tokens,
	}
}

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	Token string
	User  models.User
}

// Login authenticates and persists the issued token. A failed token write is
// logged but does not fail the login.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account; same contract as Login.
func (c *Client) Register(ctx context.Context, fullName, email, phone, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", map[string]string{
		"fullName": fullName,
		"email":    email,
		"phone":    phone,
		"password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (*AuthResult, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encode auth request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "create auth request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.WrapCode(errors.CodeNetwork, err, "auth request failed")
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.WithCode(errors.CodeAuth, errorMessage(resp.StatusCode, payload))
	}

	var env struct {
		Token string                 `json:"token"`
		User  map[string]interface{} `json:"user"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, errors.Wrap(err, "decode auth response")
	}

	if err := c.tokens.SetToken(env.Token); err != nil {
		logger.Warn("persist auth token failed", zap.Error(err))
	}
	return &AuthResult{Token: env.Token, User: mapUser(env.User)}, nil
}

// Logout invalidates the session server-side (best effort) and always clears
// the local token. A dead backend never strands the user logged in.
func (c *Client) Logout(ctx context.Context) {
	if token := c.token(); token != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+token)
			if resp, err := c.httpc.Do(req); err != nil {
				logger.Warn("remote logout failed", zap.Error(err))
			} else {
				resp.Body.Close()
			}
		}
	}
	c.ClearToken()
}

// GetUserProfile returns the current user. Guest mode is an auth error.
func (c *Client) GetUserProfile(ctx context.Context) (*models.User, error) {
	token := c.token()
	if token == "" {
		return nil, errors.WithCode(errors.CodeAuth, "not authenticated")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, errors.Wrap(err, "create profile request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.WrapCode(errors.CodeNetwork, err, "profile request failed")
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.WithCode(errors.CodeAuth, errorMessage(resp.StatusCode, payload))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.WithCode(errors.CodeNetwork, errorMessage(resp.StatusCode, payload))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.Wrap(err, "decode profile response")
	}
	u := mapUser(raw)
	return &u, nil
}

// MediaFile describes an attachment to upload: a local file path, the part
// filename, and its MIME type.
type MediaFile struct {
	URI  string
	Name string
	MIME string
}

// ReportData is the outbound submission payload. Optional fields are sent
// only when non-empty; Anonymous always travels.
type ReportData struct {
	IncidentType string
	Date         string
	Time         string
	Location     string
	Description  string
	Witnesses    string
	Anonymous    bool
	Name         string
	Phone        string
	Email        string
	Lat          *float64
	Lng          *float64
	Media        *MediaFile
}

// SubmitReport uploads a report as multipart form data and returns the
// backend-assigned id. The Content-Type header comes from the multipart
// writer so the boundary is always right; it is never set by hand.
func (c *Client) SubmitReport(ctx context.Context, data ReportData, userID string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"incident_type", data.IncidentType},
		{"date", data.Date},
		{"time", data.Time},
		{"location", data.Location},
		{"description", data.Description},
		{"witnesses", data.Witnesses},
		{"name", data.Name},
		{"phone", data.Phone},
		{"email", data.Email},
		{"user_id", userID},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return "", errors.Wrap(err, "build report payload")
		}
	}
	if err := w.WriteField("anonymous", strconv.FormatBool(data.Anonymous)); err != nil {
		return "", errors.Wrap(err, "build report payload")
	}
	if data.Lat != nil && data.Lng != nil {
		if err := w.WriteField("lat", strconv.FormatFloat(*data.Lat, 'f', -1, 64)); err != nil {
			return "", errors.Wrap(err, "build report payload")
		}
		if err := w.WriteField("lng", strconv.FormatFloat(*data.Lng, 'f', -1, 64)); err != nil {
			return "", errors.Wrap(err, "build report payload")
		}
	}
	if data.Media != nil {
		if err := attachMedia(w, data.Media); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "finish report payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reports", &buf)
	if err != nil {
		return "", errors.Wrap(err, "create report request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", errors.WrapCode(errors.CodeNetwork, err, "submit report failed")
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.WithCode(errors.CodeNetwork, errorMessage(resp.StatusCode, payload))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", errors.Wrap(err, "decode report response")
	}
	return out.ID, nil
}

func attachMedia(w *multipart.Writer, m *MediaFile) error {
	f, err := os.Open(m.URI)
	if err != nil {
		return errors.Wrap(err, "open media file")
	}
	defer f.Close()

	name := m.Name
	if name == "" {
		name = filepath.Base(m.URI)
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, name))
	hdr.Set("Content-Type", m.MIME)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return errors.Wrap(err, "create media part")
	}
	if _, err := io.Copy(part, f); err != nil {
		return errors.Wrap(err, "copy media file")
	}
	return nil
}

// GetReports fetches one page of reports, already normalized.
func (c *Client) GetReports(ctx context.Context, skip, limit int, userID string) ([]models.Report, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	if userID != "" {
		q.Set("user_id", userID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reports?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create list request")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.WrapCode(errors.CodeNetwork, err, "list reports failed")
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.WithCode(errors.CodeNetwork, errorMessage(resp.StatusCode, payload))
	}

	var raw []map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.Wrap(err, "decode list response")
	}
	out := make([]models.Report, 0, len(raw))
	for _, doc := range raw {
		out = append(out, MapReport(doc))
	}
	return out, nil
}

// GetReportByID fetches one report. A 404 comes back as a CodeNotFound
// error distinguishable from transport failures.
func (c *Client) GetReportByID(ctx context.Context, id string) (*models.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reports/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create get request")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.WrapCode(errors.CodeNetwork, err, "get report failed")
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.WithCode(errors.CodeNotFound, "report not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.WithCode(errors.CodeNetwork, errorMessage(resp.StatusCode, payload))
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errors.Wrap(err, "decode report")
	}
	r := MapReport(raw)
	return &r, nil
}

// IsNotFound reports whether err is the missing-report error.
func IsNotFound(err error) bool {
	return errors.HasCode(err, errors.CodeNotFound)
}

// CheckConnection hits the health endpoint; any non-2xx means down. Used
// only to gate startup, never for retries.
func (c *Client) CheckConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.Wrap(err, "create health request")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.WrapCode(errors.CodeNetwork, err, "backend unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.WithCodef(errors.CodeNetwork, "health check failed with status %d", resp.StatusCode)
	}
	return nil
}
