package repository

import (
	"context"
	"fmt"

	"storefront-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChannelChanges is a partial channel update. Nil fields are left untouched.
type ChannelChanges struct {
	Name                *string
	Slug                *string
	AddShippingZones    []uuid.UUID
	RemoveShippingZones []uuid.UUID
}

// ChannelRepository defines data-access operations for channels.
type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel, zoneIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Channel, error)
	FindBySlug(ctx context.Context, slug string) (*models.Channel, error)
	FindAll(ctx context.Context) ([]models.Channel, error)
	Update(ctx context.Context, id uuid.UUID, changes ChannelChanges) error
}

// GormChannelRepository implements ChannelRepository using GORM.
type GormChannelRepository struct {
	db *gorm.DB
}

// NewGormChannelRepository creates a new GormChannelRepository.
func NewGormChannelRepository(db *gorm.DB) ChannelRepository {
	return &GormChannelRepository{db: db}
}

// Create inserts the channel and links it to the given zones in one transaction.
func (r *GormChannelRepository) Create(ctx context.Context, channel *models.Channel, zoneIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(channel).Error; err != nil {
			return err
		}
		return linkZones(tx, channel.ID, zoneIDs)
	})
}

func (r *GormChannelRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Channel, error) {
	var c models.Channel
	if err := r.db.WithContext(ctx).
		Preload("ShippingZones", func(db *gorm.DB) *gorm.DB { return db.Order("shipping_zones.name ASC") }).
		First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormChannelRepository) FindBySlug(ctx context.Context, slug string) (*models.Channel, error) {
	var c models.Channel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormChannelRepository) FindAll(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	if err := r.db.WithContext(ctx).
		Order("slug ASC").
		Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

// Update applies changes atomically. Removing a zone also deletes the channel
// listings of every shipping method in that zone.
func (r *GormChannelRepository) Update(ctx context.Context, id uuid.UUID, changes ChannelChanges) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{}
		if changes.Name != nil {
			fields["name"] = *changes.Name
		}
		if changes.Slug != nil {
			fields["slug"] = *changes.Slug
		}
		if len(fields) > 0 {
			if err := tx.Model(&models.Channel{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}

		if err := linkZones(tx, id, changes.AddShippingZones); err != nil {
			return err
		}

		if len(changes.RemoveShippingZones) > 0 {
			if err := tx.
				Where("channel_id = ? AND shipping_zone_id IN ?", id, changes.RemoveShippingZones).
				Delete(&models.ChannelShippingZone{}).Error; err != nil {
				return fmt.Errorf("unlink shipping zones: %w", err)
			}

			methodIDs := tx.Model(&models.ShippingMethod{}).
				Select("id").
				Where("shipping_zone_id IN ?", changes.RemoveShippingZones)
			if err := tx.
				Where("channel_id = ? AND shipping_method_id IN (?)", id, methodIDs).
				Delete(&models.ShippingMethodChannelListing{}).Error; err != nil {
				return fmt.Errorf("delete shipping method listings: %w", err)
			}
		}
		return nil
	})
}

func linkZones(tx *gorm.DB, channelID uuid.UUID, zoneIDs []uuid.UUID) error {
	if len(zoneIDs) == 0 {
		return nil
	}
	links := make([]models.ChannelShippingZone, 0, len(zoneIDs))
	for _, zoneID := range zoneIDs {
		links = append(links, models.ChannelShippingZone{ChannelID: channelID, ShippingZoneID: zoneID})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return fmt.Errorf("link shipping zones: %w", err)
	}
	return nil
}
