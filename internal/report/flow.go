package report

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"citysafe/internal/api"
	"citysafe/internal/geo"
	"citysafe/internal/models"
	"citysafe/internal/notify"
	"citysafe/internal/session"
	"citysafe/pkg/errors"
	"citysafe/pkg/logger"
)

const (
	dateFormat = "01/02/2006"
	timeFormat = "15:04"
)

// ErrSubmissionInFlight guards against double-submits while a report is on
// the wire, standing in for the disabled submit button.
var ErrSubmissionInFlight = errors.New("a report submission is already in progress")

// Submitter is the submission flow: validate, locate, upload, reconcile.
type Submitter struct {
	api      *api.Client
	session  *session.Store
	notifier *notify.Store
	locator  geo.Locator

	now      func() time.Time
	inFlight atomic.Bool
}

func NewSubmitter(client *api.Client, sess *session.Store, notifier *notify.Store, locator geo.Locator) *Submitter {
	return &Submitter{
		api:      client,
		session:  sess,
		notifier: notifier,
		locator:  locator,
		now:      time.Now,
	}
}

// Submit runs the whole flow. On success the session store gains exactly one
// entry for the new report, keyed by the backend-assigned id, and an
// incident notification is dispatched without being awaited. Any submission
// error aborts before state is touched.
func (s *Submitter) Submit(ctx context.Context, form Form) (*models.Report, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Store(false)

	if err := Validate(form); err != nil {
		return nil, err
	}

	label := form.resolvedType()
	data := api.ReportData{
		IncidentType: normalizeType(label),
		Date:         strings.TrimSpace(form.Date),
		Time:         strings.TrimSpace(form.Time),
		Location:     strings.TrimSpace(form.Location),
		Description:  strings.TrimSpace(form.Description),
		Witnesses:    strings.TrimSpace(form.Witnesses),
		Anonymous:    form.Anonymous,
		Name:         strings.TrimSpace(form.Name),
		Phone:        strings.TrimSpace(form.Phone),
		Email:        strings.TrimSpace(form.Email),
		Media:        mediaDescriptor(form.MediaURI),
	}

	// Location denial or failure degrades the submission, never blocks it.
	if point, err := s.locator.Current(ctx); err != nil {
		logger.Warn("device location unavailable", zap.Error(err))
	} else {
		lat, lng := point.Lat, point.Lng
		data.Lat, data.Lng = &lat, &lng
	}

	if data.Date == "" {
		data.Date = s.now().Format(dateFormat)
	}
	if data.Time == "" {
		data.Time = s.now().Format(timeFormat)
	}

	var userID string
	if u, ok := s.session.User(); ok {
		userID = u.ID
	}

	id, err := s.api.SubmitReport(ctx, data, userID)
	if err != nil {
		return nil, err
	}

	submitted := s.reconcile(ctx, id, data, label)

	// Fire-and-forget: the notification outcome never affects the result
	// shown to the user, disabled category included.
	go func(title, location string) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("notification dispatch panicked", zap.Any("cause", r))
			}
		}()
		s.notifier.GenerateIncidentReportNotification(title, location)
	}(label, data.Location)

	return submitted, nil
}

// reconcile fetches the confirmed record and folds it into the session
// store. If the follow-up fetch fails the submission stays successful; the
// locally assembled report is returned so the UI still has something to
// show, but only the backend-confirmed entry ever reaches the store.
func (s *Submitter) reconcile(ctx context.Context, id string, data api.ReportData, label string) *models.Report {
	confirmed, err := s.api.GetReportByID(ctx, id)
	if err != nil {
		logger.Warn("post-submit fetch failed", zap.String("id", id), zap.Error(err))
		local := localReport(id, data, label)
		return &local
	}
	s.session.AddReport(*confirmed)
	return confirmed
}

// localReport assembles the client-side view of a submission when the
// backend record could not be re-fetched.
func localReport(id string, data api.ReportData, label string) models.Report {
	r := models.Report{
		ID:           id,
		Title:        label,
		IncidentType: label,
		Description:  data.Description,
		Location:     data.Location,
		Date:         data.Date,
		Time:         data.Time,
		Witnesses:    data.Witnesses,
		Anonymous:    data.Anonymous,
		Name:         data.Name,
		Phone:        data.Phone,
		Email:        data.Email,
		Status:       models.StatusPending,
	}
	if data.Lat != nil && data.Lng != nil {
		r.Point = &models.GeoPoint{Lat: *data.Lat, Lng: *data.Lng}
	}
	if data.Media != nil {
		r.MediaURI = data.Media.URI
	}
	return r
}
