package raindrop

import "context"

type userResponse struct {
	Result bool    `json:"result"`
	User   rawUser `json:"user"`
}

// GetUser fetches the authenticated account.
func (c *Client) GetUser(ctx context.Context) (User, error) {
	var resp userResponse
	if err := c.get(ctx, "/user", nil, &resp); err != nil {
		return User{}, err
	}
	return normalizeUser(resp.User)
}
