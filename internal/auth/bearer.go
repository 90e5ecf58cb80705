package auth

import "strings"

const (
	bearerScheme = "Bearer"
	bearerPrefix = bearerScheme + " "
)

// BearerToken extracts the credential from an Authorization header value.
// A header without the "Bearer" scheme yields ErrMissingToken. An empty
// credential after the scheme is returned as-is and left to verification.
// HTTP servers trim trailing whitespace, so "Bearer " arrives as "Bearer".
func BearerToken(header string) (string, error) {
	if header == bearerScheme {
		return "", nil
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", ErrMissingToken
	}
	return token, nil
}
