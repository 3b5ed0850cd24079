package response

var (
	ErrInvalidRequest  = newError(400, "invalid request")
	ErrUnauthorized    = newError(401, "unauthorized")
	ErrForbidden       = newError(403, "forbidden")
	ErrNotFound        = newError(404, "not found")
	ErrTokenInvalid    = newError(419, "token invalid or expired")
	ErrTooManyRequests = newError(429, "too many requests")
	ErrServerInternal  = newError(500, "internal server error")
	ErrDatabase        = newError(502, "database error")
)
