package models

import "time"

// ValidationRecord persists one engine run so claim handlers can audit why
// a document was accepted or routed to review.
type ValidationRecord struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	// Reference is the stable external identifier handed back to callers.
	Reference      string `gorm:"size:36;not null;uniqueIndex"`
	UserID         uint   `gorm:"index;not null"`
	DocType        string `gorm:"size:32;index;not null"`
	Decision       string `gorm:"size:16;index;not null"`
	Score          int    `gorm:"not null"`
	FraudSuspected bool   `gorm:"index"`
	Reason         string `gorm:"size:2048"`
	RawText        string `gorm:"type:text"`
	ProposedJSON   []byte `gorm:"type:jsonb"`
	ResultJSON     []byte `gorm:"type:jsonb"`
}
