package digitalocean

import (
	"context"
	"fmt"

	"github.com/digitalocean/godo"
)

type client struct {
	api *godo.Client
}

func NewClient(token string) *client {
	return &client{
		api: godo.NewFromToken(token),
	}
}

// Balance reports the hosting account balance shown on the admin panel.
func (c *client) Balance(ctx context.Context) (string, error) {
	b, _, err := c.api.Balance.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching balance: %w", err)
	}

	return fmt.Sprintf("$%s (month to date $%s)", b.AccountBalance, b.MonthToDateBalance), nil
}
