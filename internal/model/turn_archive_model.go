package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TurnArchive is the durable record of one completed chat turn, written
// asynchronously after the session has been persisted to Redis.
type TurnArchive struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string         `gorm:"type:text;not null;index"`
	Turn      int            `gorm:"not null"`
	Question  string         `gorm:"type:text;not null"`
	Answer    string         `gorm:"type:text"`
	Intent    string         `gorm:"type:text"`
	Route     string         `gorm:"type:text"`
	Profile   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (TurnArchive) TableName() string {
	return "turn_archives"
}
