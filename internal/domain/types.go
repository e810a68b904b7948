// Package domain contains the core data model for the StoRe catalog.
package domain

// User is an account that can authenticate against the API.
// Users are provisioned out of band (see cmd/seed); the API never mutates them.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// Session binds an opaque token to the user it was issued to.
// A token is unique per issuance and stays valid until explicitly revoked.
type Session struct {
	Token  string `json:"session_id"`
	UserID int64  `json:"user_id"`
}

// Database is the top of the catalog hierarchy. Locations belong to a database.
type Database struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
}

// Location is a physical place inside a database. Items are stored at a location.
type Location struct {
	ID         int64  `json:"id"`
	Name       string `json:"name" validate:"required"`
	DatabaseID int64  `json:"database"`
}

// Tag is a label that items can reference. Tags are never owned by an item.
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" validate:"required"`
	Color int64  `json:"color"`
	Icon  *int64 `json:"icon,omitempty"`
}

// Property is a typed key/value attached to an item.
type Property struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Value       string  `json:"value"`
	DisplayType *string `json:"display_type,omitempty"`
	Min         *int64  `json:"min,omitempty"`
	Max         *int64  `json:"max,omitempty"`
}

// Item is a physical thing in the catalog. It lives at a location and may
// reference any number of tags. Internal and custom properties are two
// disjoint lists and are never merged.
type Item struct {
	ID                 int64             `json:"id"`
	Name               string            `json:"name" validate:"required"`
	Description        string            `json:"description"`
	Image              string            `json:"image"`
	LocationID         int64             `json:"location"`
	Tags               []int64           `json:"tags"`
	Amount             int64             `json:"amount" validate:"gte=0"`
	PropertiesInternal []Property        `json:"properties_internal"`
	PropertiesCustom   []Property        `json:"properties_custom"`
	Attachments        map[string]string `json:"attachments"`
	LastEdited         int64             `json:"last_edited"`
	Created            int64             `json:"created"`
}

// Entity is implemented by every catalog resource with a server-assigned
// numeric ID. A zero ID means "unassigned".
type Entity interface {
	EntityID() int64
}

// EntityID implements Entity.
func (d *Database) EntityID() int64 { return d.ID }

// EntityID implements Entity.
func (l *Location) EntityID() int64 { return l.ID }

// EntityID implements Entity.
func (t *Tag) EntityID() int64 { return t.ID }

// EntityID implements Entity.
func (i *Item) EntityID() int64 { return i.ID }
