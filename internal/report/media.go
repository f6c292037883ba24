package report

import (
	"path/filepath"
	"strings"

	"citysafe/internal/api"
)

// mime types by extension; anything unrecognized falls back to a generic
// image type, matching what the capture screen produces.
var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
}

const fallbackMIME = "image/jpeg"

// mediaDescriptor normalizes a local file path into the upload descriptor.
func mediaDescriptor(uri string) *api.MediaFile {
	if uri == "" {
		return nil
	}
	name := filepath.Base(uri)
	mime, ok := mimeByExt[strings.ToLower(filepath.Ext(uri))]
	if !ok {
		mime = fallbackMIME
	}
	return &api.MediaFile{URI: uri, Name: name, MIME: mime}
}
