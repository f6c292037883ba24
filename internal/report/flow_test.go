package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citysafe/internal/api"
	"citysafe/internal/geo"
	"citysafe/internal/models"
	"citysafe/internal/notify"
	"citysafe/internal/session"
	"citysafe/pkg/kvstore"
)

type memTokens struct{ token string }

func (m *memTokens) Token() (string, error)  { return m.token, nil }
func (m *memTokens) SetToken(t string) error { m.token = t; return nil }
func (m *memTokens) Clear() error            { m.token = ""; return nil }

// scriptedBackend records the submitted form and serves a configurable
// follow-up fetch.
type scriptedBackend struct {
	mu        sync.Mutex
	submitted map[string]string
	fetchDoc  map[string]interface{}
	fetch404  bool
}

func (b *scriptedBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /reports", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseMultipartForm(32 << 20)
		b.mu.Lock()
		b.submitted = map[string]string{}
		for k, vs := range r.MultipartForm.Value {
			if len(vs) > 0 {
				b.submitted[k] = vs[0]
			}
		}
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "srv-1"})
	})
	mux.HandleFunc("GET /reports/srv-1", func(w http.ResponseWriter, r *http.Request) {
		if b.fetch404 {
			http.Error(w, `{"detail":"report not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(b.fetchDoc)
	})
	return mux
}

func (b *scriptedBackend) form(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.submitted[key]
}

func newFlow(t *testing.T, backend *scriptedBackend, locator geo.Locator) (*Submitter, *session.Store, *notify.Store) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	kv, err := kvstore.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	client := api.New(srv.URL, &memTokens{})
	sess := session.NewStore(client)
	notifier := notify.NewStore(kv)
	return NewSubmitter(client, sess, notifier, locator), sess, notifier
}

func TestSubmitHappyPath(t *testing.T) {
	backend := &scriptedBackend{fetchDoc: map[string]interface{}{
		"_id":          "srv-1",
		"incidentType": "theft",
		"location":     "Half Way Tree",
		"status":       "pending",
	}}
	sub, sess, notifier := newFlow(t, backend, geo.StaticLocator{Point: models.GeoPoint{Lat: 17.9, Lng: -76.8}})
	sess.SetUser(models.User{ID: "u1"})

	r, err := sub.Submit(context.Background(), Form{
		IncidentType: "Theft",
		Location:     "Half Way Tree",
		Description:  "bag snatched",
		Anonymous:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", r.ID)
	assert.Equal(t, models.StatusPending, r.Status)

	// Exactly one store entry, keyed by the backend id.
	list := sess.Reports()
	require.Len(t, list, 1)
	assert.Equal(t, "srv-1", list[0].ID)

	// The form was normalized and carried the device position and user.
	assert.Equal(t, "theft", backend.form("incident_type"))
	assert.Equal(t, "17.9", backend.form("lat"))
	assert.Equal(t, "-76.8", backend.form("lng"))
	assert.Equal(t, "u1", backend.form("user_id"))
	assert.Equal(t, "true", backend.form("anonymous"))

	// The incident notification lands without being awaited.
	assert.Eventually(t, func() bool {
		return len(notifier.Notifications()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitLocationDenialIsSoft(t *testing.T) {
	backend := &scriptedBackend{fetchDoc: map[string]interface{}{"_id": "srv-1"}}
	sub, _, _ := newFlow(t, backend, geo.DeniedLocator{})

	_, err := sub.Submit(context.Background(), Form{
		IncidentType: "Theft",
		Location:     "Negril",
		Description:  "something",
		Anonymous:    true,
	})
	require.NoError(t, err)
	assert.Empty(t, backend.form("lat"))
	assert.Empty(t, backend.form("lng"))
}

func TestSubmitDefaultsDateAndTime(t *testing.T) {
	backend := &scriptedBackend{fetchDoc: map[string]interface{}{"_id": "srv-1"}}
	sub, _, _ := newFlow(t, backend, geo.DeniedLocator{})
	fixed := time.Date(2025, 3, 14, 21, 30, 0, 0, time.Local)
	sub.now = func() time.Time { return fixed }

	_, err := sub.Submit(context.Background(), Form{
		IncidentType: "Theft",
		Location:     "Negril",
		Description:  "something",
		Anonymous:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "03/14/2025", backend.form("date"))
	assert.Equal(t, "21:30", backend.form("time"))
}

func TestSubmitReconcileFailureKeepsStoreClean(t *testing.T) {
	backend := &scriptedBackend{fetch404: true}
	sub, sess, _ := newFlow(t, backend, geo.DeniedLocator{})

	r, err := sub.Submit(context.Background(), Form{
		IncidentType: "Other",
		CustomType:   "Pickpocketing",
		Location:     "Ocho Rios",
		Description:  "wallet lifted",
		Anonymous:    true,
	})
	// The submission itself stays successful.
	require.NoError(t, err)
	assert.Equal(t, "srv-1", r.ID)
	assert.Equal(t, "Pickpocketing", r.Title)
	assert.Equal(t, models.StatusPending, r.Status)

	// Only backend-confirmed entries reach the session store.
	assert.Empty(t, sess.Reports())
}

func TestSubmitValidationAbortsBeforeNetwork(t *testing.T) {
	backend := &scriptedBackend{}
	sub, sess, notifier := newFlow(t, backend, geo.DeniedLocator{})

	_, err := sub.Submit(context.Background(), Form{Anonymous: true})
	require.Error(t, err)
	assert.Empty(t, sess.Reports())
	assert.Empty(t, notifier.Notifications())
	assert.Nil(t, backend.submitted)
}

func TestSubmitRejectsConcurrentSubmission(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /reports", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"srv-1"}`))
	})
	mux.HandleFunc("GET /reports/srv-1", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"report not found"}`, http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	kv, err := kvstore.Open("")
	require.NoError(t, err)
	defer kv.Close()

	client := api.New(srv.URL, &memTokens{})
	sub := NewSubmitter(client, session.NewStore(client), notify.NewStore(kv), geo.DeniedLocator{})

	form := Form{IncidentType: "Theft", Location: "A", Description: "d", Anonymous: true}
	done := make(chan error, 1)
	go func() {
		_, err := sub.Submit(context.Background(), form)
		done <- err
	}()

	<-entered
	_, err = sub.Submit(context.Background(), form)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
}
