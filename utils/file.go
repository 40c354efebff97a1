package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var (
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed size")
	ErrInvalidFileType = errors.New("invalid file type. Only images are allowed")
)

func ValidateImage(fileHeader *multipart.FileHeader, maxSize int64) error {
	if maxSize > 0 && fileHeader.Size > maxSize {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return ErrInvalidFileType
	}
	return nil
}

// LocalImageStore keeps uploaded images under a directory served at /uploads.
type LocalImageStore struct {
	dir     string
	maxSize int64
}

func NewLocalImageStore(dir string, maxSize int64) *LocalImageStore {
	return &LocalImageStore{dir: dir, maxSize: maxSize}
}

// Upload returns the public URL path and the relative path used as the public id.
func (s *LocalImageStore) Upload(_ context.Context, fileHeader *multipart.FileHeader, subDir string) (string, string, error) {
	if err := ValidateImage(fileHeader, s.maxSize); err != nil {
		return "", "", err
	}

	uploadPath := filepath.Join(s.dir, subDir)
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		return "", "", err
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	base := strings.TrimSuffix(filepath.Base(fileHeader.Filename), filepath.Ext(fileHeader.Filename))
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), strings.ReplaceAll(base, " ", "_"), ext)
	if len(filename) > 255 {
		filename = fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(uploadPath, filename))
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", err
	}

	rel := path.Join(filepath.ToSlash(subDir), filename)
	return "/uploads/" + rel, rel, nil
}

func (s *LocalImageStore) Delete(_ context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	fullPath := filepath.Join(s.dir, filepath.FromSlash(publicID))
	if _, err := os.Stat(fullPath); err == nil {
		return os.Remove(fullPath)
	}
	return nil
}
