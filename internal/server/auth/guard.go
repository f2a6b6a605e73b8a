package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// UserFinder resolves a token subject to a live user record.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Guard turns an Authorization header into a resolved user.
//
// Unauthenticated -> TokenPresented -> IdentityResolved, with any failure
// before the last step collapsing into the same 401 error.
type Guard struct {
	tokens *TokenService
	users  UserFinder
}

func NewGuard(tokens *TokenService, users UserFinder) *Guard {
	return &Guard{tokens: tokens, users: users}
}

// Authenticate resolves the caller. A missing header, a non-bearer scheme, a
// token that fails verification and a subject without a user all return
// common.Unauthenticated. Store faults are returned as they are.
func (g *Guard) Authenticate(ctx context.Context, header string) (*models.User, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, common.Unauthenticated()
	}

	username, err := g.tokens.Verify(token)
	if err != nil {
		return nil, common.Unauthenticated()
	}

	user, err := g.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Unauthenticated()
		}
		return nil, err
	}

	return user, nil
}

// BearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authorize checks that caller owns the row authored by ownerID. action is
// used in the message, e.g. "update" gives
// "Not authorized to update this blog post".
func Authorize(caller *models.User, ownerID, action string) error {
	if caller == nil {
		return common.Unauthenticated()
	}
	if caller.ID != ownerID {
		return common.Forbidden("Not authorized to " + action + " this blog post")
	}
	return nil
}
