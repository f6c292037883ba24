package stores

import (
	"io"
	"strings"

	"citysafe/pkg/util"
)

// Store abstracts where uploaded report media ends up.
type Store interface {
	Read(key string) (io.ReadCloser, int64, error)
	Write(key string, r io.Reader) error
	Delete(key string) error
}

// New picks a store from configuration: "minio" when configured, disk
// otherwise.
func New(kind, diskRoot string) Store {
	if strings.EqualFold(kind, "minio") && util.GetEnv("MINIO_ENDPOINT") != "" {
		return NewMinioStore()
	}
	return NewDiskStore(diskRoot)
}
