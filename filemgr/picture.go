package filemgr

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"mingle/apperr"
	"mingle/globals"
)

// PictureFunc stores an uploaded picture on demand and returns its stored name, or "" if there is none.
type PictureFunc func() (string, error)

// Uploader writes uploaded pictures into one shared directory.
type Uploader struct {
	dir    string
	logger *zap.Logger
}

// NewUploader makes sure dir and its thumbnail folder exist.
func NewUploader(dir string, logger *zap.Logger) (*Uploader, error) {
	if err := os.MkdirAll(filepath.Join(dir, thumbDir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploader{dir: dir, logger: logger}, nil
}

func (u *Uploader) Dir() string { return u.dir }

// Picture defers storing the request's picture until the caller has validated everything else.
func (u *Uploader) Picture(r *http.Request) PictureFunc {
	return func() (string, error) { return u.FromRequest(r) }
}

// FromRequest stores the picture field of an already parsed multipart form.
// It returns "" when the request carries no picture.
func (u *Uploader) FromRequest(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	files := r.MultipartForm.File[globals.PictureField]
	switch len(files) {
	case 0:
		return "", nil
	case 1:
		return u.Store(files[0])
	default:
		return "", apperr.Validation(ErrTooManyFiles.Error())
	}
}

// Store writes the file under a generated name and returns that name.
func (u *Uploader) Store(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", apperr.Infrastructure("open upload", err)
	}
	defer src.Close()

	name := storedName(header.Filename)
	path := filepath.Join(u.dir, name)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperr.Infrastructure("create upload file", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(path)
		return "", apperr.Infrastructure("write upload file", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", apperr.Infrastructure("close upload file", err)
	}

	u.logger.Info("file uploaded",
		zap.String("name", name),
		zap.String("original", header.Filename),
		zap.Int64("size", header.Size),
	)

	if wantsThumbnail(name) {
		if err := u.thumbnail(path, name); err != nil {
			u.logger.Warn("thumbnail failed", zap.String("name", name), zap.Error(err))
		}
	}
	return name, nil
}

func (u *Uploader) thumbnail(path, name string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	return imaging.Save(thumb, u.ThumbnailPath(name))
}

// ThumbnailPath is where the thumbnail of a stored file lives.
func (u *Uploader) ThumbnailPath(name string) string {
	return filepath.Join(u.dir, thumbDir, name)
}
