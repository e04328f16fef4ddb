package auth

import (
	"log/slog"

	"github.com/samber/lo"
)

type authenticator struct {
	authorizedUserIDs []int64
}

// NewAuthenticator builds a whitelist. An empty whitelist admits everyone.
func NewAuthenticator(authorizedUserIDs []int64) *authenticator {
	if len(authorizedUserIDs) == 0 {
		slog.Info("telegram whitelist disabled, bot is open to everyone")
	} else {
		slog.Info("telegram authorized user IDs", "user_ids", authorizedUserIDs)
	}

	return &authenticator{
		authorizedUserIDs: authorizedUserIDs,
	}
}

func (a *authenticator) IsAuthorized(userID int64) bool {
	if len(a.authorizedUserIDs) == 0 {
		return true
	}
	return lo.Contains(a.authorizedUserIDs, userID)
}
