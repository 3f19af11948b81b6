package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Collection types, stored as plain ints.
const (
	CollectionTypeCaptured  = 100
	CollectionTypeTechnical = 200
	CollectionTypeNews      = 300
	CollectionTypeResearch  = 400
	CollectionTypeGames     = 500
	CollectionTypeHumor     = 600
	CollectionTypeOther     = 900
)

type (
	UUIDModel struct {
		ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	User struct {
		UUIDModel
		Email       string `gorm:"unique;not null"`
		Name        string
		Password    string `gorm:"not null"`
		Token       string `gorm:"index"`
		IsActive    bool   `gorm:"not null;default:true"`
		IsStaff     bool   `gorm:"not null;default:false"`
		Items       []URLItem
		Collections []URLCollection
	}

	URLItem struct {
		UUIDModel
		Title  string         `gorm:"size:255;not null"`
		URL    string         `gorm:"size:2048;not null"`
		Visits int            `gorm:"not null"`
		Tags   pq.StringArray `gorm:"type:text[]"`
		UserID uuid.UUID      `gorm:"type:uuid;not null;index"`
		User   User           `gorm:"constraint:OnDelete:CASCADE"`
	}

	URLCollection struct {
		UUIDModel
		Name           string `gorm:"size:255;not null"`
		Description    *string
		CollectionType int            `gorm:"not null;default:100"`
		Favorite       *bool
		Tags           pq.StringArray `gorm:"type:text[]"`
		UserID         uuid.UUID      `gorm:"type:uuid;not null;index"`
		User           User           `gorm:"constraint:OnDelete:CASCADE"`
	}

	// CollectionMembership links one collection to one item. It is managed
	// explicitly rather than as a gorm join table because it records which
	// user created the link.
	CollectionMembership struct {
		UUIDModel
		CollectionID uuid.UUID     `gorm:"type:uuid;not null;index"`
		Collection   URLCollection `gorm:"constraint:OnDelete:CASCADE"`
		ItemID       uuid.UUID     `gorm:"type:uuid;not null;index"`
		Item         URLItem       `gorm:"constraint:OnDelete:CASCADE"`
		UserID       uuid.UUID     `gorm:"type:uuid;not null"`
		User         User          `gorm:"constraint:OnDelete:CASCADE"`
	}
)

func (m *UUIDModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
