package domains

import "time"

// Computer statuses as stored in the computers table.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Computer represents a monitored remote host.
type Computer struct {
	ID       int64      `db:"id"`
	Name     string     `db:"name"`
	URL      string     `db:"url"`
	Token    string     `db:"token"`
	LastSeen *time.Time `db:"last_seen"`
	Status   string     `db:"status"`
}
