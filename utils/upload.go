package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxAvatarSize = 5 << 20 // 5MB

var (
	ErrFileTooLarge = errors.New("upload: file exceeds 5MB limit")
	ErrNotAnImage   = errors.New("upload: only image files are allowed")
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// SaveAvatar writes the uploaded image under dir with a random filename and
// returns the public URL path. The file hits disk before the caller persists
// the URL, so a crash in between orphans a file rather than dangling a
// reference.
func SaveAvatar(file *multipart.FileHeader, dir string) (string, error) {
	if file.Size > MaxAvatarSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", ErrNotAnImage
	}
	// Non-browser clients send application/octet-stream for file parts;
	// the extension check above still gates those.
	if ctype := file.Header.Get("Content-Type"); ctype != "" &&
		ctype != "application/octet-stream" && !strings.HasPrefix(ctype, "image/") {
		return "", ErrNotAnImage
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}
