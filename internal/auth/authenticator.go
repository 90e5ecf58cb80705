package auth

import (
	"context"
	"errors"
)

type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Principal, error)
}

type chainAuthenticator []Authenticator

// Chain tries each authenticator in order and admits the first principal any
// of them accepts. Nil entries are skipped; a chain of one is returned as is.
func Chain(authenticators ...Authenticator) Authenticator {
	chain := make(chainAuthenticator, 0, len(authenticators))
	for _, a := range authenticators {
		if a != nil {
			chain = append(chain, a)
		}
	}
	if len(chain) == 1 {
		return chain[0]
	}
	return chain
}

func (c chainAuthenticator) Authenticate(ctx context.Context, bearerToken string) (Principal, error) {
	var errs []error
	for _, a := range c {
		principal, err := a.Authenticate(ctx, bearerToken)
		if err == nil {
			return principal, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return Principal{}, ErrInvalidToken
	}
	return Principal{}, errors.Join(append([]error{ErrInvalidToken}, errs...)...)
}
