package middleware

// contextKey is a private key type to prevent collisions in context values.
type contextKey string

const (
	loggerKey  = contextKey("logger")
	actorIDKey = contextKey("actorID")
)
