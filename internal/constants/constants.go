package constants

// ContextKeyUserID is the gin context key holding the authenticated account id.
const ContextKeyUserID = "user_id"

// MinPasswordLength is the minimum accepted password length at signup.
const MinPasswordLength = 8

// DefaultCookieName is the session-credential cookie name when COOKIE_NAME is unset.
const DefaultCookieName = "todolist_token"

// MaxSuggestedTasks caps how many AI suggestions a single request may return.
const MaxSuggestedTasks = 10
