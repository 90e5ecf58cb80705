package auth

// Principal is the identity admitted by an Authenticator. Only the user
// identifier survives verification; the remaining claims are dropped.
type Principal struct {
	UserID string
}
