package common

// Header names accepted by the authentication gate. AuthHeaderName carries
// an optional "Bearer " prefix; LegacyTokenHeaderName carries a raw token
// and exists for older clients.
const (
	AuthHeaderName        = "Authorization"
	LegacyTokenHeaderName = "X-Auth-Token"
)

// User roles stored in the users table. Roles are assigned server-side;
// no HTTP operation changes them.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
