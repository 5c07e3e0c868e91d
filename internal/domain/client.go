package domain

import "regexp"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

// Client owns zero or more accounts. ID zero means the client has not
// been persisted yet.
type Client struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ValidEmail reports whether email has the shape local@domain.tld.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type ClientRepository interface {
	CreateClient(client *Client) error
	GetClient(id int64) (*Client, error)
	ListClients() ([]*Client, error)
	UpdateClient(client *Client) error
	// DeleteClient removes the client; owned accounts and their
	// transactions are cascaded by the storage schema.
	DeleteClient(id int64) error
}
