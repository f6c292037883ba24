package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citysafe/internal/models"
	"citysafe/pkg/errors"
)

type fakeLister struct {
	reports []models.Report
	err     error
	calls   int
}

func (f *fakeLister) GetReports(_ context.Context, skip, limit int, userID string) ([]models.Report, error) {
	f.calls++
	return f.reports, f.err
}

func TestSetAndClearUser(t *testing.T) {
	s := NewStore(&fakeLister{})

	_, ok := s.User()
	assert.False(t, ok)

	s.SetUser(models.User{ID: "u1", FullName: "Ann"})
	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "Ann", u.FullName)

	s.AddReport(models.Report{ID: "r1"})
	s.ClearUser()

	_, ok = s.User()
	assert.False(t, ok)
	assert.Empty(t, s.Reports())
}

func TestUpdateUserMergesNonEmpty(t *testing.T) {
	s := NewStore(&fakeLister{})
	s.SetUser(models.User{ID: "u1", FullName: "Ann", Email: "ann@example.jm", Phone: "876"})

	s.UpdateUser(models.User{FullName: "Ann Chin"})

	u, _ := s.User()
	assert.Equal(t, "Ann Chin", u.FullName)
	assert.Equal(t, "ann@example.jm", u.Email)
	assert.Equal(t, "876", u.Phone)
}

func TestUpdateUserGuestModeIsNoop(t *testing.T) {
	s := NewStore(&fakeLister{})
	s.UpdateUser(models.User{FullName: "Nobody"})

	_, ok := s.User()
	assert.False(t, ok)
}

func TestUpdateReportReplacesById(t *testing.T) {
	s := NewStore(&fakeLister{})
	s.AddReport(models.Report{ID: "r1", Status: models.StatusPending})
	s.AddReport(models.Report{ID: "r2", Status: models.StatusPending})

	s.UpdateReport(models.Report{ID: "r2", Status: models.StatusResolved})

	list := s.Reports()
	require.Len(t, list, 2)
	assert.Equal(t, models.StatusPending, list[0].Status)
	assert.Equal(t, models.StatusResolved, list[1].Status)

	// Unknown id changes nothing.
	s.UpdateReport(models.Report{ID: "r9", Status: models.StatusResolved})
	assert.Len(t, s.Reports(), 2)
}

func TestReportsReturnsCopy(t *testing.T) {
	s := NewStore(&fakeLister{})
	s.AddReport(models.Report{ID: "r1", Title: "original"})

	list := s.Reports()
	list[0].Title = "mutated"

	assert.Equal(t, "original", s.Reports()[0].Title)
}

func TestFetchMyReportsReplacesList(t *testing.T) {
	lister := &fakeLister{reports: []models.Report{{ID: "r1"}, {ID: "r2"}}}
	s := NewStore(lister)
	s.AddReport(models.Report{ID: "stale"})

	s.FetchMyReports(context.Background(), "u1")

	list := s.Reports()
	require.Len(t, list, 2)
	assert.Equal(t, "r1", list[0].ID)
	assert.False(t, s.Loading())
}

func TestFetchMyReportsFailureKeepsList(t *testing.T) {
	lister := &fakeLister{err: errors.WithCode(errors.CodeNetwork, "backend unreachable")}
	s := NewStore(lister)
	s.SetReports([]models.Report{{ID: "kept"}})

	s.FetchMyReports(context.Background(), "u1")

	list := s.Reports()
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].ID)
	assert.False(t, s.Loading())
}
