package storage

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"mug.png", "products/mug.png"},
		{"/tmp/upload/mug.png", "products/mug.png"},
		{`C:\pics\tee.jpg`, "products/tee.jpg"},
		{"", "products/image"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ObjectKey(tt.in), tt.in)
	}
}

func TestImages_URL(t *testing.T) {
	img, err := NewImages("localhost:9000", "key", "secret", "shop", false)
	require.NoError(t, err)

	u, err := img.URL(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, u)

	// presigning is local, no server round trip
	u, err = img.URL(context.Background(), "products/mug.png")
	require.NoError(t, err)
	parsed, err := url.Parse(u)
	require.NoError(t, err)
	assert.Equal(t, "/shop/products/mug.png", parsed.Path)
	assert.NotEmpty(t, parsed.Query().Get("X-Amz-Signature"))
}
