package domain

import "time"

// Site is a client installation tickets are filed against.
type Site struct {
	ID         string
	Name       string
	ClientType string
	IsActive   bool
	CreatedAt  time.Time
}

// ClientType is an organization category in the reference catalog.
type ClientType struct {
	ID   string
	Name string
}

// Equipment is a catalog entry for hardware installed at a site.
type Equipment struct {
	ID       string
	SiteID   string
	Name     string
	IsActive bool
}
