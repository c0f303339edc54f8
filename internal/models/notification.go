package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntityRef points a notification at an article, comment or user. Kind tags
// which table ID refers to.
type EntityRef struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id"`
}

// Notification is one inbox entry. Unread flips true→false exactly once via
// mark-read; Sent flips false→true the first time the record appears in an
// all/unread listing. Neither flag ever transitions back. Deletion is soft:
// gorm's DeletedAt scope keeps deleted rows out of every query.
type Notification struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RecipientID uint           `gorm:"not null;index" json:"-"`
	ActorKind   string         `gorm:"size:16;not null" json:"-"`
	ActorID     uint           `gorm:"not null" json:"-"`
	Verb        string         `gorm:"size:32;not null;index" json:"verb"`
	TargetKind  string         `gorm:"size:16" json:"-"`
	TargetID    uint           `json:"-"`
	Description string         `gorm:"size:512;not null" json:"description"`
	Data        datatypes.JSON `json:"data"` // event context: slugs, usernames
	Unread      bool           `gorm:"default:true;index" json:"unread"`
	Sent        bool           `gorm:"default:false;index" json:"sent"`
	CreatedAt   time.Time      `gorm:"index" json:"timestamp"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Actor returns the tagged actor reference.
func (n *Notification) Actor() EntityRef {
	return EntityRef{Kind: n.ActorKind, ID: n.ActorID}
}

// Target returns the secondary context entity, or false when absent.
func (n *Notification) Target() (EntityRef, bool) {
	if n.TargetKind == "" {
		return EntityRef{}, false
	}
	return EntityRef{Kind: n.TargetKind, ID: n.TargetID}, true
}
