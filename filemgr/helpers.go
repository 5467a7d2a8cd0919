package filemgr

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var extPattern = regexp.MustCompile(`^\.[a-z0-9]+$`)

// safeExtension returns the lower-cased extension of a client filename, or "" if it looks unsafe.
func safeExtension(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) > maxExtLen || !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}

// storedName generates a collision-free name that keeps the client's extension.
func storedName(original string) string {
	return uuid.NewString() + safeExtension(original)
}

func wantsThumbnail(name string) bool {
	return thumbnailExtensions[filepath.Ext(name)]
}
