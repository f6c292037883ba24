package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citysafe/internal/models"
	"citysafe/pkg/cache"
	"citysafe/pkg/stores"
	"citysafe/pkg/util"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := util.InitDatabase("", "")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserAccount{}, &models.ReportRecord{}))

	c, err := cache.NewCache(cache.Config{Local: cache.DefaultLocalConfig()})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	h := NewHandlers(db, stores.NewDiskStore(t.TempDir()), c, "test-secret")
	srv := httptest.NewServer(NewEngine(h, gin.TestMode))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterAndMe(t *testing.T) {
	srv := newTestServer(t)

	resp, out := postJSON(t, srv.URL+"/auth/register", map[string]string{
		"fullName": "Ann Chin",
		"email":    "ann@example.jm",
		"phone":    "876-555-0101",
		"password": "s3cret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := out["token"].(string)
	require.NotEmpty(t, token)

	user, ok := out["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ann Chin", user["full_name"])
	assert.NotEmpty(t, user["_id"])

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer meResp.Body.Close()
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]string{"email": "ann@example.jm", "password": "s3cret"}
	resp, _ := postJSON(t, srv.URL+"/auth/register", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out := postJSON(t, srv.URL+"/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "email already registered", out["detail"])
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	postJSON(t, srv.URL+"/auth/register", map[string]string{"email": "a@b.jm", "password": "right"})
	resp, out := postJSON(t, srv.URL+"/auth/login", map[string]string{"email": "a@b.jm", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "incorrect email or password", out["detail"])
}

func TestMeRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/auth/me")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func reportForm(t *testing.T, fields map[string]string, mediaName string, media []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if mediaName != "" {
		part, err := w.CreateFormFile("media", mediaName)
		require.NoError(t, err)
		_, err = part.Write(media)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCreateReportValidation(t *testing.T) {
	srv := newTestServer(t)

	buf, ct := reportForm(t, map[string]string{"incident_type": "theft"}, "", nil)
	resp, err := http.Post(srv.URL+"/reports", ct, buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out struct {
		Detail []map[string]string `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Detail)
	assert.Contains(t, out.Detail[0]["msg"], "required")
}

func TestCreateListGetReport(t *testing.T) {
	srv := newTestServer(t)

	buf, ct := reportForm(t, map[string]string{
		"incident_type": "theft",
		"location":      "Half Way Tree",
		"description":   "bag snatched",
		"anonymous":     "true",
		"lat":           "17.9771",
		"lng":           "-76.7936",
		"user_id":       "u1",
	}, "", nil)
	resp, err := http.Post(srv.URL+"/reports", ct, buf)
	require.NoError(t, err)
	var created map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["id"]
	require.NotEmpty(t, id)

	getResp, err := http.Get(srv.URL + "/reports/" + id)
	require.NoError(t, err)
	defer getResp.Body.Close()
	var doc map[string]interface{}
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&doc))
	assert.Equal(t, id, doc["_id"])
	assert.Equal(t, "pending", doc["status"])

	// Coordinates replace the location text with a GeoJSON point.
	loc, ok := doc["location"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Point", loc["type"])

	listResp, err := http.Get(srv.URL + "/reports?skip=0&limit=10&user_id=u1")
	require.NoError(t, err)
	defer listResp.Body.Close()
	var docs []map[string]interface{}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&docs))
	require.Len(t, docs, 1)
	assert.Equal(t, id, docs[0]["_id"])
}

func TestGetReportNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/reports/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "report not found", out["detail"])
}

func TestMediaRoundtrip(t *testing.T) {
	srv := newTestServer(t)

	buf, ct := reportForm(t, map[string]string{
		"incident_type": "vandalism",
		"location":      "Spanish Town Road",
		"description":   "graffiti",
		"anonymous":     "true",
	}, "scene.jpg", []byte("jpeg-bytes"))
	resp, err := http.Post(srv.URL+"/reports", ct, buf)
	require.NoError(t, err)
	var created map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	getResp, err := http.Get(srv.URL + "/reports/" + created["id"])
	require.NoError(t, err)
	defer getResp.Body.Close()
	var doc map[string]interface{}
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&doc))
	mediaURL, _ := doc["media_url"].(string)
	require.True(t, strings.HasPrefix(mediaURL, "/media/"))

	fileResp, err := http.Get(srv.URL + mediaURL)
	require.NoError(t, err)
	defer fileResp.Body.Close()
	require.Equal(t, http.StatusOK, fileResp.StatusCode)
	body, err := io.ReadAll(fileResp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), body)
}
