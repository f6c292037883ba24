package api

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handlers "citysafe/internal/handler"
	"citysafe/internal/models"
	"citysafe/pkg/cache"
	"citysafe/pkg/errors"
	"citysafe/pkg/kvstore"
	"citysafe/pkg/stores"
	"citysafe/pkg/util"
)

// newTestBackend spins up the stub server on an in-memory database and a
// client wired to it through a fresh device store.
func newTestBackend(t *testing.T) (*Client, *kvstore.Store) {
	t.Helper()

	db, err := util.InitDatabase("", "")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserAccount{}, &models.ReportRecord{}))

	c, err := cache.NewCache(cache.Config{Local: cache.DefaultLocalConfig()})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	media := stores.NewDiskStore(t.TempDir())
	h := handlers.NewHandlers(db, media, c, "test-secret")
	srv := httptest.NewServer(handlers.NewEngine(h, gin.TestMode))
	t.Cleanup(srv.Close)

	kv, err := kvstore.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	return New(srv.URL, NewDeviceTokenStore(kv)), kv
}

func TestRegisterPersistsToken(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	res, err := client.Register(ctx, "Ann Chin", "ann@example.jm", "876-555-0101", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "Ann Chin", res.User.FullName)
	assert.NotEmpty(t, res.User.ID)

	token, ok := client.AuthToken()
	assert.True(t, ok)
	assert.Equal(t, res.Token, token)
}

func TestLoginWrongPassword(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	_, err := client.Register(ctx, "Ann", "ann@example.jm", "", "s3cret")
	require.NoError(t, err)
	client.ClearToken()

	_, err = client.Login(ctx, "ann@example.jm", "wrong")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAuth))
	assert.Equal(t, "incorrect email or password", err.Error())

	_, ok := client.AuthToken()
	assert.False(t, ok)
}

func TestGetUserProfile(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	_, err := client.Register(ctx, "Ann", "ann@example.jm", "876-555-0101", "s3cret")
	require.NoError(t, err)

	u, err := client.GetUserProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.FullName)
	assert.Equal(t, "ann@example.jm", u.Email)
}

func TestGetUserProfileGuestMode(t *testing.T) {
	client, _ := newTestBackend(t)

	_, err := client.GetUserProfile(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAuth))
}

func TestGetUserProfileInvalidToken(t *testing.T) {
	client, kv := newTestBackend(t)
	require.NoError(t, kv.Put(tokenKey, "not-a-jwt"))

	_, err := client.GetUserProfile(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeAuth))
}

func TestLogoutClearsToken(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	_, err := client.Register(ctx, "Ann", "ann@example.jm", "", "s3cret")
	require.NoError(t, err)

	client.Logout(ctx)
	_, ok := client.AuthToken()
	assert.False(t, ok)
}

func TestSubmitAndFetchReport(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	res, err := client.Register(ctx, "Ann", "ann@example.jm", "", "s3cret")
	require.NoError(t, err)

	lat, lng := 17.9771, -76.7936
	id, err := client.SubmitReport(ctx, ReportData{
		IncidentType: "theft",
		Date:         "03/14/2025",
		Time:         "21:30",
		Location:     "Half Way Tree",
		Description:  "bag snatched near the bus stop",
		Anonymous:    false,
		Name:         "Ann",
		Phone:        "876-555-0101",
		Email:        "ann@example.jm",
		Lat:          &lat,
		Lng:          &lng,
	}, res.User.ID)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	r, err := client.GetReportByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, "theft", r.IncidentType)
	assert.Equal(t, models.StatusPending, r.Status)
	// Coordinates came back as a GeoJSON point and were normalized.
	require.NotNil(t, r.Point)
	assert.Equal(t, lat, r.Point.Lat)
	assert.Equal(t, lng, r.Point.Lng)
}

func TestSubmitReportWithMedia(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "scene.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg-bytes"), 0o644))

	id, err := client.SubmitReport(ctx, ReportData{
		IncidentType: "vandalism",
		Location:     "Spanish Town Road",
		Description:  "graffiti on the wall",
		Anonymous:    true,
		Media:        &MediaFile{URI: path, Name: "scene.jpg", MIME: "image/jpeg"},
	}, "")
	require.NoError(t, err)

	r, err := client.GetReportByID(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, r.MediaURL, "/media/")
	assert.Equal(t, "Spanish Town Road", r.Location)
	assert.True(t, r.Anonymous)
}

func TestGetReportByIDNotFound(t *testing.T) {
	client, _ := newTestBackend(t)

	_, err := client.GetReportByID(context.Background(), "missing-id")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, errors.HasCode(err, errors.CodeNetwork))
}

func TestGetReportsFiltersByUser(t *testing.T) {
	client, _ := newTestBackend(t)
	ctx := context.Background()

	res, err := client.Register(ctx, "Ann", "ann@example.jm", "", "s3cret")
	require.NoError(t, err)

	_, err = client.SubmitReport(ctx, ReportData{
		IncidentType: "theft", Location: "A", Description: "mine", Anonymous: true,
	}, res.User.ID)
	require.NoError(t, err)
	_, err = client.SubmitReport(ctx, ReportData{
		IncidentType: "assault", Location: "B", Description: "someone else's", Anonymous: true,
	}, "other-user")
	require.NoError(t, err)

	all, err := client.GetReports(ctx, 0, 50, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := client.GetReports(ctx, 0, 50, res.User.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "theft", mine[0].IncidentType)
}

func TestCheckConnection(t *testing.T) {
	client, _ := newTestBackend(t)
	require.NoError(t, client.CheckConnection(context.Background()))

	dead := New("http://127.0.0.1:1", NewDeviceTokenStore(nil))
	err := dead.CheckConnection(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNetwork))
}
