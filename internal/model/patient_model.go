package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Patient struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"type:varchar(255);not null"`
	CreatedBy uuid.UUID      `gorm:"type:uuid;not null;index"`
	History   datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	ExpiresAt time.Time      `gorm:"not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (Patient) TableName() string {
	return "patients"
}
