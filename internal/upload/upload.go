// Package upload validates multipart file uploads and stores accepted files
// under generated names. The client-supplied filename is only consulted for
// its extension; the stored path is always uuid-derived.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
)

const (
	KindImage    = "image"
	KindDocument = "document"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var documentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type Validator struct {
	MaxSize int64
	Dir     string
}

// Save validates the upload and writes it into a per-section subdirectory.
// allowed restricts the acceptable kinds (KindImage and/or KindDocument).
// Returns the stored path relative to the process working directory.
func (v *Validator) Save(fh *multipart.FileHeader, section string, allowed ...string) (string, error) {
	if fh.Size > v.MaxSize {
		return "", apperr.Wrap(apperr.FileTooLarge,
			fmt.Errorf("file size %d exceeds limit %d", fh.Size, v.MaxSize))
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !extAllowed(ext, allowed) {
		return "", apperr.Wrap(apperr.UnsupportedType, fmt.Errorf("extension %q not allowed", ext))
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", apperr.Wrap(apperr.Internal, err)
	}
	head = head[:n]

	// The sniffer cannot distinguish office formats, so documents are only
	// checked by extension; image extensions must sniff as an image.
	if imageExts[ext] {
		if !strings.HasPrefix(http.DetectContentType(head), "image/") {
			return "", apperr.Wrap(apperr.UnsupportedType,
				fmt.Errorf("content does not match image extension %q", ext))
		}
	}

	dir := filepath.Join(v.Dir, section)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.Internal, err)
	}

	path := filepath.Join(dir, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", apperr.Wrap(apperr.Internal, err)
	}
	defer dst.Close()

	if _, err := dst.Write(head); err != nil {
		os.Remove(path)
		return "", apperr.Wrap(apperr.Internal, err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, v.MaxSize)); err != nil {
		os.Remove(path)
		return "", apperr.Wrap(apperr.Internal, err)
	}

	return path, nil
}

// Delete removes a previously stored file. Missing files are not an error.
func (v *Validator) Delete(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func extAllowed(ext string, allowed []string) bool {
	for _, kind := range allowed {
		switch kind {
		case KindImage:
			if imageExts[ext] {
				return true
			}
		case KindDocument:
			if documentExts[ext] {
				return true
			}
		}
	}
	return false
}
