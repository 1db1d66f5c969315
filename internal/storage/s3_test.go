package storage

import (
	"context"
	"net/url"
	"testing"

	"learntrack/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		S3URL:       "http://localhost:9000",
		S3Bucket:    "learntrack",
		S3Region:    "us-east-1",
		S3AccessKey: "minio",
		S3SecretKey: "minio-secret",
	}
}

func TestNewS3StoreWithoutBucket(t *testing.T) {
	store, err := NewS3Store(context.Background(), &config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestPresignedURLsArePathStyle(t *testing.T) {
	store, err := NewS3Store(context.Background(), testConfig(), zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, store)

	getURL, err := store.PresignGet(context.Background(), "modules/m1/lecture.mp4")
	require.NoError(t, err)
	u, err := url.Parse(getURL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/learntrack/modules/m1/lecture.mp4", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	putURL, err := store.PresignPut(context.Background(), "modules/m1/notes.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, putURL, "/learntrack/modules/m1/notes.pdf")
}
