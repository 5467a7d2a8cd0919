package globals

// Context keys
type ContextKey string

const (
	UserIDKey ContextKey = "userId"
	ClaimsKey ContextKey = "claims"
)

// Form and upload field names shared by handlers.
const (
	PictureField = "picture"
	AssetsPrefix = "/assets"
)
