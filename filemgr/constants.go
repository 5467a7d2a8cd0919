package filemgr

import "errors"

const (
	thumbDir   = "thumb"
	thumbWidth = 300
	maxExtLen  = 10
)

// Extensions imaging can decode; these uploads get a thumbnail.
var thumbnailExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

var ErrTooManyFiles = errors.New("only one picture may be uploaded per request")
