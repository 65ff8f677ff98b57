package repositories

import (
	"context"

	"gabber/annotator/internal/constants"
	gormModels "gabber/annotator/internal/models/gorm"

	"gorm.io/gorm"
)

type ConsentRepository struct {
	db *gorm.DB
}

func NewConsentRepository(db *gorm.DB) *ConsentRepository {
	return &ConsentRepository{db: db}
}

func (r *ConsentRepository) WithTx(tx *gorm.DB) *ConsentRepository {
	return &ConsentRepository{db: tx}
}

func (r *ConsentRepository) Create(ctx context.Context, consent *gormModels.Consent) error {
	return wrap(r.db.WithContext(ctx).Create(consent).Error, "create consent")
}

func (r *ConsentRepository) GetByID(ctx context.Context, id uint) (*gormModels.Consent, error) {
	var consent gormModels.Consent
	if err := r.db.WithContext(ctx).First(&consent, id).Error; err != nil {
		return nil, wrap(err, "fetch consent")
	}
	return &consent, nil
}

// ListBySession returns one row per participant
func (r *ConsentRepository) ListBySession(ctx context.Context, sessionID string) ([]gormModels.Consent, error) {
	var consents []gormModels.Consent
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&consents).Error
	if err != nil {
		return nil, wrap(err, "list consents")
	}
	return consents, nil
}

// UpdateType overwrites the consent decision
func (r *ConsentRepository) UpdateType(ctx context.Context, consent *gormModels.Consent, consentType constants.ConsentType) error {
	consent.Type = consentType
	err := r.db.WithContext(ctx).
		Model(consent).
		Select("type", "updated_at").
		Updates(consent).Error
	return wrap(err, "update consent")
}
