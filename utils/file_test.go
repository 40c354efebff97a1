package utils

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("cover", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["cover"][0]
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(multipartFile(t, "cover.PNG", []byte("png")), 100))
	assert.ErrorIs(t, ValidateImage(multipartFile(t, "cover.pdf", []byte("pdf")), 100), ErrInvalidFileType)
	assert.ErrorIs(t, ValidateImage(multipartFile(t, "cover.jpg", make([]byte, 200)), 100), ErrFileTooLarge)
}

func TestLocalImageStore_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalImageStore(dir, 1<<20)
	ctx := context.Background()

	url, publicID, err := store.Upload(ctx, multipartFile(t, "my cover.jpg", []byte("jpeg")), "covers")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+publicID, url)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(publicID)))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, store.Delete(ctx, publicID))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(publicID)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Delete(ctx, publicID))
}
