package constants

// Session / context keys
const (
	SessionCookieName = "ng_session"
	ContextKeyUserID  = "user_id"
	ContextKeyRole    = "user_role"
)

// Validation limits
const (
	MinPasswordLength = 8

	// Upload limits in bytes
	MaxUploadSize  = 8 << 20
	MaxAvatarSize  = 5 << 20
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Leaderboard
const (
	DefaultLeaderboardLimit = 50
)

// Points granted per currency unit donated ("1 punto por cada dólar donado").
const PointsPerCurrencyUnit = 1
