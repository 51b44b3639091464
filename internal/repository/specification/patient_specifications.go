package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy scopes patient rows to the account that created them.
type OwnedBy struct {
	OwnerID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_by = ?", s.OwnerID)
}

// NotExpired hides rows whose fixed horizon has passed, whether or not
// the sweeper has removed them yet.
type NotExpired struct {
	Now time.Time
}

func (s NotExpired) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at > ?", s.Now)
}

type ExpiredAt struct {
	Now time.Time
}

func (s ExpiredAt) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at <= ?", s.Now)
}
