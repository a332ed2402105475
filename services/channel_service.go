package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	aws_pkg "storefront-service/pkg/aws"
	"storefront-service/models"
	"storefront-service/pricing"
	"storefront-service/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChannelErrorCode classifies a field-level channel validation failure.
type ChannelErrorCode string

const (
	ChannelErrorUnique              ChannelErrorCode = "UNIQUE"
	ChannelErrorDuplicatedInputItem ChannelErrorCode = "DUPLICATED_INPUT_ITEM"
	ChannelErrorRequired            ChannelErrorCode = "REQUIRED"
	ChannelErrorNotFound            ChannelErrorCode = "NOT_FOUND"
	ChannelErrorGraphQL             ChannelErrorCode = "GRAPHQL_ERROR"
	ChannelErrorInvalid             ChannelErrorCode = "INVALID"
)

// ChannelError is returned inside the mutation payload, never as a transport fault.
type ChannelError struct {
	Field         string
	Code          ChannelErrorCode
	Message       string
	ShippingZones []uuid.UUID
}

// UpdateChannelInput is a partial channel update. Nil fields are left untouched.
type UpdateChannelInput struct {
	Name                *string
	Slug                *string
	AddShippingZones    []uuid.UUID
	RemoveShippingZones []uuid.UUID
}

// CreateChannelInput describes a new channel.
type CreateChannelInput struct {
	Name             string
	Slug             string
	CurrencyCode     string
	IsActive         bool
	AddShippingZones []uuid.UUID
}

// ChannelService defines the channel management business logic.
type ChannelService interface {
	CreateChannel(ctx context.Context, input CreateChannelInput) (*models.Channel, []ChannelError, *ServiceError)
	UpdateChannel(ctx context.Context, id uuid.UUID, input UpdateChannelInput) (*models.Channel, []ChannelError, *ServiceError)
	GetChannel(ctx context.Context, id uuid.UUID) (*models.Channel, *ServiceError)
	ListChannels(ctx context.Context) ([]models.Channel, *ServiceError)
	ListShippingZones(ctx context.Context) ([]models.ShippingZone, *ServiceError)
}

type channelServiceImpl struct {
	channels    repository.ChannelRepository
	shipping    repository.ShippingRepository
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewChannelService creates a new ChannelService.
func NewChannelService(
	channels repository.ChannelRepository,
	shipping repository.ShippingRepository,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) ChannelService {
	return &channelServiceImpl{
		channels:    channels,
		shipping:    shipping,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// slugSeparators keeps slug.Make from spelling "&" and "@" out as words.
var slugSeparators = strings.NewReplacer("&", " ", "@", " ")

// Slugify lower-cases s, transliterates non-ASCII letters to ASCII and
// replaces every run of other characters that are not letters, digits,
// dashes or underscores with a single dash. Leading and trailing dashes are
// dropped.
func Slugify(s string) string {
	return slug.Make(slugSeparators.Replace(s))
}

const (
	msgRequired       = "This field is required."
	msgSlugTaken      = "Channel with this Slug already exists."
	msgDuplicateZones = "The same object cannot be in both lists for adding and removing items."
)

func (s *channelServiceImpl) UpdateChannel(ctx context.Context, id uuid.UUID, input UpdateChannelInput) (*models.Channel, []ChannelError, *ServiceError) {
	if dup := overlapping(input.AddShippingZones, input.RemoveShippingZones); len(dup) > 0 {
		return nil, []ChannelError{{
			Field:         "shippingZones",
			Code:          ChannelErrorDuplicatedInputItem,
			Message:       msgDuplicateZones,
			ShippingZones: dup,
		}}, nil
	}

	channel, err := s.channels.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, []ChannelError{{Field: "id", Code: ChannelErrorNotFound, Message: "Couldn't resolve to a channel: " + id.String()}}, nil
	}
	if err != nil {
		s.logger.Error("Failed to load channel", zap.String("channel_id", id.String()), zap.Error(err))
		return nil, nil, internal("Failed to load channel")
	}

	var errs []ChannelError
	changes := repository.ChannelChanges{}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			errs = append(errs, ChannelError{Field: "name", Code: ChannelErrorRequired, Message: msgRequired})
		} else {
			changes.Name = input.Name
		}
	}

	if input.Slug != nil {
		normalized := Slugify(*input.Slug)
		slugErr, svcErr := s.checkSlug(ctx, normalized, channel.ID)
		if svcErr != nil {
			return nil, nil, svcErr
		}
		if slugErr != nil {
			errs = append(errs, *slugErr)
		} else {
			changes.Slug = &normalized
		}
	}

	zoneErr, svcErr := s.checkZonesExist(ctx, input.AddShippingZones)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	if zoneErr != nil {
		errs = append(errs, *zoneErr)
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}

	linked := make(map[uuid.UUID]bool, len(channel.ShippingZones))
	for _, zid := range channel.ShippingZoneIDs() {
		linked[zid] = true
	}
	for _, zid := range unique(input.AddShippingZones) {
		if !linked[zid] {
			changes.AddShippingZones = append(changes.AddShippingZones, zid)
		}
	}
	for _, zid := range unique(input.RemoveShippingZones) {
		if linked[zid] {
			changes.RemoveShippingZones = append(changes.RemoveShippingZones, zid)
		}
	}

	if err := s.channels.Update(ctx, channel.ID, changes); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, []ChannelError{{Field: "slug", Code: ChannelErrorUnique, Message: msgSlugTaken}}, nil
		}
		s.logger.Error("Failed to update channel", zap.String("channel_id", id.String()), zap.Error(err))
		return nil, nil, internal("Failed to update channel")
	}

	updated, err := s.channels.FindByID(ctx, channel.ID)
	if err != nil {
		s.logger.Error("Failed to reload channel", zap.String("channel_id", id.String()), zap.Error(err))
		return nil, nil, internal("Failed to load channel")
	}

	s.logger.Info("Channel updated",
		zap.String("channel_id", updated.ID.String()),
		zap.String("slug", updated.Slug),
		zap.Int("zones_added", len(changes.AddShippingZones)),
		zap.Int("zones_removed", len(changes.RemoveShippingZones)),
	)

	s.publishEvent(ctx, models.ChannelUpdatedEvent{
		EventType:            "channel_updated",
		ChannelID:            updated.ID.String(),
		Name:                 updated.Name,
		Slug:                 updated.Slug,
		AddedShippingZones:   uuidStrings(changes.AddShippingZones),
		RemovedShippingZones: uuidStrings(changes.RemoveShippingZones),
		Timestamp:            time.Now(),
	})

	return updated, nil, nil
}

func (s *channelServiceImpl) CreateChannel(ctx context.Context, input CreateChannelInput) (*models.Channel, []ChannelError, *ServiceError) {
	var errs []ChannelError

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ChannelError{Field: "name", Code: ChannelErrorRequired, Message: msgRequired})
	}

	normalized := Slugify(input.Slug)
	slugErr, svcErr := s.checkSlug(ctx, normalized, uuid.Nil)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	if slugErr != nil {
		errs = append(errs, *slugErr)
	}

	code := strings.ToUpper(strings.TrimSpace(input.CurrencyCode))
	if code == "" {
		errs = append(errs, ChannelError{Field: "currencyCode", Code: ChannelErrorRequired, Message: msgRequired})
	} else if err := pricing.ValidateCurrency(code); err != nil {
		errs = append(errs, ChannelError{Field: "currencyCode", Code: ChannelErrorInvalid, Message: "Unknown currency code."})
	}

	zoneErr, svcErr := s.checkZonesExist(ctx, input.AddShippingZones)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	if zoneErr != nil {
		errs = append(errs, *zoneErr)
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}

	channel := &models.Channel{
		Name:         input.Name,
		Slug:         normalized,
		CurrencyCode: code,
		IsActive:     input.IsActive,
	}
	if err := s.channels.Create(ctx, channel, unique(input.AddShippingZones)); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, []ChannelError{{Field: "slug", Code: ChannelErrorUnique, Message: msgSlugTaken}}, nil
		}
		s.logger.Error("Failed to create channel", zap.String("slug", normalized), zap.Error(err))
		return nil, nil, internal("Failed to create channel")
	}

	created, err := s.channels.FindByID(ctx, channel.ID)
	if err != nil {
		s.logger.Error("Failed to reload channel", zap.String("channel_id", channel.ID.String()), zap.Error(err))
		return nil, nil, internal("Failed to load channel")
	}

	s.logger.Info("Channel created", zap.String("channel_id", created.ID.String()), zap.String("slug", created.Slug))
	s.publishEvent(ctx, models.ChannelUpdatedEvent{
		EventType:          "channel_created",
		ChannelID:          created.ID.String(),
		Name:               created.Name,
		Slug:               created.Slug,
		AddedShippingZones: uuidStrings(created.ShippingZoneIDs()),
		Timestamp:          time.Now(),
	})

	return created, nil, nil
}

func (s *channelServiceImpl) GetChannel(ctx context.Context, id uuid.UUID) (*models.Channel, *ServiceError) {
	channel, err := s.channels.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Channel not found")
	}
	if err != nil {
		s.logger.Error("Failed to load channel", zap.String("channel_id", id.String()), zap.Error(err))
		return nil, internal("Failed to load channel")
	}
	return channel, nil
}

func (s *channelServiceImpl) ListChannels(ctx context.Context) ([]models.Channel, *ServiceError) {
	channels, err := s.channels.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list channels", zap.Error(err))
		return nil, internal("Failed to list channels")
	}
	return channels, nil
}

func (s *channelServiceImpl) ListShippingZones(ctx context.Context) ([]models.ShippingZone, *ServiceError) {
	zones, err := s.shipping.FindAllZones(ctx)
	if err != nil {
		s.logger.Error("Failed to list shipping zones", zap.Error(err))
		return nil, internal("Failed to list shipping zones")
	}
	return zones, nil
}

// checkSlug validates a normalized slug. self is the channel being updated, or uuid.Nil on create.
func (s *channelServiceImpl) checkSlug(ctx context.Context, normalized string, self uuid.UUID) (*ChannelError, *ServiceError) {
	if normalized == "" {
		return &ChannelError{Field: "slug", Code: ChannelErrorRequired, Message: msgRequired}, nil
	}
	existing, err := s.channels.FindBySlug(ctx, normalized)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to look up slug", zap.String("slug", normalized), zap.Error(err))
		return nil, internal("Failed to validate slug")
	}
	if existing.ID != self {
		return &ChannelError{Field: "slug", Code: ChannelErrorUnique, Message: msgSlugTaken}, nil
	}
	return nil, nil
}

func (s *channelServiceImpl) checkZonesExist(ctx context.Context, ids []uuid.UUID) (*ChannelError, *ServiceError) {
	ids = unique(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	zones, err := s.shipping.FindZonesByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load shipping zones", zap.Error(err))
		return nil, internal("Failed to load shipping zones")
	}
	found := make(map[uuid.UUID]bool, len(zones))
	for _, z := range zones {
		found[z.ID] = true
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}
	return &ChannelError{
		Field:         "shippingZones",
		Code:          ChannelErrorNotFound,
		Message:       "Couldn't resolve to a shipping zone.",
		ShippingZones: missing,
	}, nil
}

// publishEvent marshals an event and publishes it to SNS (non-fatal on error).
func (s *channelServiceImpl) publishEvent(ctx context.Context, event interface{}) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		s.logger.Debug("SNS not configured, skipping event publish")
		return
	}
	b, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal SNS event", zap.Error(err))
		return
	}
	if err := s.snsClient.Publish(ctx, s.snsTopicArn, b); err != nil {
		s.logger.Error("Failed to publish SNS event", zap.Error(err))
		return
	}
	s.logger.Info("Published SNS event", zap.String("topic", s.snsTopicArn))
}

// overlapping returns the ids present in both lists, in add-list order, once each.
func overlapping(add, remove []uuid.UUID) []uuid.UUID {
	if len(add) == 0 || len(remove) == 0 {
		return nil
	}
	removed := make(map[uuid.UUID]bool, len(remove))
	for _, id := range remove {
		removed[id] = true
	}
	var dup []uuid.UUID
	for _, id := range unique(add) {
		if removed[id] {
			dup = append(dup, id)
		}
	}
	return dup
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func uuidStrings(ids []uuid.UUID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
