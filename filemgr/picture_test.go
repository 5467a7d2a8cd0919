package filemgr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mingle/apperr"
)

type part struct {
	field, filename string
	data            []byte
}

func multipartRequest(t *testing.T, parts ...part) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("description", "hello"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newUploader(t *testing.T) *Uploader {
	t.Helper()
	u, err := NewUploader(filepath.Join(t.TempDir(), "assets"), zap.NewNop())
	require.NoError(t, err)
	return u
}

func TestStorePictureWithThumbnail(t *testing.T) {
	u := newUploader(t)
	data := pngBytes(t, 600, 400)

	name, err := u.FromRequest(multipartRequest(t, part{"picture", "Beach Day.PNG", data}))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.NotContains(t, name, "Beach")

	stored, err := os.ReadFile(filepath.Join(u.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	f, err := os.Open(u.ThumbnailPath(name))
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestSameClientNameNeverCollides(t *testing.T) {
	u := newUploader(t)
	a, err := u.FromRequest(multipartRequest(t, part{"picture", "me.txt", []byte("one")}))
	require.NoError(t, err)
	b, err := u.FromRequest(multipartRequest(t, part{"picture", "me.txt", []byte("two")}))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	got, err := os.ReadFile(filepath.Join(u.Dir(), a))
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))

	_, err = os.Stat(u.ThumbnailPath(a))
	assert.True(t, os.IsNotExist(err), "text files get no thumbnail")
}

func TestUndecodableImageStillStored(t *testing.T) {
	u := newUploader(t)
	name, err := u.FromRequest(multipartRequest(t, part{"picture", "broken.jpg", []byte("not really a jpeg")}))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(u.Dir(), name))
	assert.NoError(t, err)
}

func TestNoPicture(t *testing.T) {
	u := newUploader(t)
	name, err := u.FromRequest(multipartRequest(t, part{"attachment", "x.png", []byte("x")}))
	require.NoError(t, err)
	assert.Empty(t, name)

	name, err = u.FromRequest(httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestRejectsSecondPicture(t *testing.T) {
	u := newUploader(t)
	_, err := u.FromRequest(multipartRequest(t,
		part{"picture", "a.png", []byte("a")},
		part{"picture", "b.png", []byte("b")},
	))
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSafeExtension(t *testing.T) {
	cases := map[string]string{
		"photo.JPG":          ".jpg",
		"../../etc/passwd":   "",
		"archive.tar.gz":     ".gz",
		"weird.p/ng":         "",
		"noext":              "",
		"x.reallylongext123": "",
		"evil.ph p":          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeExtension(in), in)
	}
}
