package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"testing"

	"devcamper/internal/models"
	"devcamper/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoUploadStoresResizedJPEGAndWebP(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", models.RolePublisher)
	b := env.bootcamp(t, owner, "Photo Bootcamp")
	svc := NewPhotoService(env.bootcamps, env.photos, 0, nil, nil)

	name, err := svc.Upload(ctx, owner, b.ID, UploadPhotoInput{
		Filename:    "campus.png",
		ContentType: "image/png",
		Content:     testutil.TinyPNG(t, 2400, 1200),
	})
	require.NoError(t, err)
	assert.Equal(t, PhotoName(b.ID), name)
	assert.Equal(t, name, env.reload(t, b.ID).Photo)

	jpg, ok := env.photos.Files[name]
	require.True(t, ok)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(jpg))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 600, cfg.Height)

	_, ok = env.photos.Files[fmt.Sprintf("photo_%d.webp", b.ID)]
	assert.True(t, ok)
}

func TestPhotoUploadSkipsWebPWhenDisabled(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com", models.RolePublisher)
	b := env.bootcamp(t, owner, "Plain Bootcamp")
	svc := NewPhotoService(env.bootcamps, env.photos, 0, func() bool { return false }, nil)

	_, err := svc.Upload(context.Background(), owner, b.ID, UploadPhotoInput{
		ContentType: "image/png",
		Content:     testutil.TinyPNG(t, 20, 20),
	})
	require.NoError(t, err)
	assert.Len(t, env.photos.Files, 1)
}

func TestPhotoUploadRejectsBadInput(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	owner := env.user(t, "owner@example.com", models.RolePublisher)
	b := env.bootcamp(t, owner, "Strict Bootcamp")
	svc := NewPhotoService(env.bootcamps, env.photos, 2048, nil, nil)

	var small bytes.Buffer
	require.NoError(t, jpeg.Encode(&small, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil))

	tests := []struct {
		name string
		in   UploadPhotoInput
		want string
	}{
		{"empty", UploadPhotoInput{ContentType: "image/png"}, "Please upload a file"},
		{"not an image", UploadPhotoInput{ContentType: "text/plain", Content: []byte("hello world")}, "Please upload an image file"},
		{"lying header", UploadPhotoInput{ContentType: "image/png", Content: []byte("hello world")}, "Please upload an image file"},
		{"too large", UploadPhotoInput{ContentType: "image/png", Content: testutil.TinyPNG(t, 2000, 2000)}, "Please upload an image less than 2048"},
		{"truncated", UploadPhotoInput{ContentType: "image/jpeg", Content: small.Bytes()[:40]}, "Please upload a valid image file"},
	}
	for _, tt := range tests {
		_, err := svc.Upload(context.Background(), owner, b.ID, tt.in)
		require.Error(t, err, tt.name)
		assert.True(t, models.IsCode(err, models.CodeValidation), tt.name)
		assert.Equal(t, tt.want, err.Error(), tt.name)
	}
	assert.Empty(t, env.photos.Files)
	assert.Equal(t, models.DefaultPhoto, env.reload(t, b.ID).Photo)
}

func TestPhotoUploadChecksOwnerAndStore(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner@example.com", models.RolePublisher)
	other := env.user(t, "other@example.com", models.RolePublisher)
	b := env.bootcamp(t, owner, "Guarded Bootcamp")
	in := UploadPhotoInput{ContentType: "image/png", Content: testutil.TinyPNG(t, 10, 10)}

	_, err := NewPhotoService(env.bootcamps, env.photos, 0, nil, nil).Upload(ctx, other, b.ID, in)
	assert.True(t, models.IsCode(err, models.CodeForbidden))

	broken := testutil.NewPhotoStoreStub()
	broken.PutErr = errors.New("disk full")
	_, err = NewPhotoService(env.bootcamps, broken, 0, nil, nil).Upload(ctx, owner, b.ID, in)
	assert.True(t, models.IsCode(err, models.CodeInternal))
}
