package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaDescriptor(t *testing.T) {
	m := mediaDescriptor("/tmp/photos/scene.PNG")
	require.NotNil(t, m)
	assert.Equal(t, "scene.PNG", m.Name)
	assert.Equal(t, "image/png", m.MIME)

	video := mediaDescriptor("/tmp/clip.mov")
	require.NotNil(t, video)
	assert.Equal(t, "video/quicktime", video.MIME)
}

func TestMediaDescriptorFallback(t *testing.T) {
	m := mediaDescriptor("/tmp/unknown.raw")
	require.NotNil(t, m)
	assert.Equal(t, "image/jpeg", m.MIME)
}

func TestMediaDescriptorEmpty(t *testing.T) {
	assert.Nil(t, mediaDescriptor(""))
}
