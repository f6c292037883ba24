package geo

import (
	"context"

	"citysafe/internal/models"
	"citysafe/pkg/errors"
	"citysafe/pkg/util"
)

// ErrPermissionDenied means the user refused location access. Callers treat
// it as a soft failure: the flow continues without coordinates.
var ErrPermissionDenied = errors.New("location permission denied")

// Locator models the permission-gated device positioning call.
type Locator interface {
	Current(ctx context.Context) (models.GeoPoint, error)
}

// StaticLocator always reports a fixed position. Useful for testing and for
// headless environments with a known location.
type StaticLocator struct {
	Point models.GeoPoint
}

func (l StaticLocator) Current(context.Context) (models.GeoPoint, error) {
	return l.Point, nil
}

// DeniedLocator models a denied permission.
type DeniedLocator struct{}

func (DeniedLocator) Current(context.Context) (models.GeoPoint, error) {
	return models.GeoPoint{}, ErrPermissionDenied
}

// FromEnv builds a locator from CITYSAFE_LAT/CITYSAFE_LNG. Without both set
// the device position is treated as unavailable.
func FromEnv() Locator {
	if util.GetEnv("CITYSAFE_LAT") == "" || util.GetEnv("CITYSAFE_LNG") == "" {
		return DeniedLocator{}
	}
	return StaticLocator{Point: models.GeoPoint{
		Lat: util.GetFloatEnv("CITYSAFE_LAT"),
		Lng: util.GetFloatEnv("CITYSAFE_LNG"),
	}}
}
