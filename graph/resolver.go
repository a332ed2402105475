// Package graph serves the channel and shipping zone GraphQL API.
package graph

import (
	"context"
	"net/http"

	"storefront-service/logger"
	"storefront-service/middleware"
	"storefront-service/models"
	"storefront-service/services"

	"github.com/google/uuid"
	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"
)

// PermissionDeniedError is returned as a top-level GraphQL error when the
// caller lacks the permission a field requires.
type PermissionDeniedError struct{}

func (PermissionDeniedError) Error() string {
	return "You do not have permission to perform this action."
}

func (PermissionDeniedError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"exception": map[string]interface{}{"code": "PermissionDenied"},
	}
}

// Resolver is the root resolver for queries and mutations.
type Resolver struct {
	channels services.ChannelService
	logger   *zap.Logger
}

// NewResolver creates a new root Resolver.
func NewResolver(channels services.ChannelService, logger *zap.Logger) *Resolver {
	return &Resolver{channels: channels, logger: logger}
}

// NewHandler parses the schema against the resolver and returns the HTTP handler.
// The caller is read from the request context.
func NewHandler(r *Resolver) http.Handler {
	schema := graphql.MustParseSchema(Schema, r, graphql.MaxDepth(10))
	return &relay.Handler{Schema: schema}
}

func (r *Resolver) require(ctx context.Context, perm string) error {
	p := middleware.PrincipalFromContext(ctx)
	if perm == "" && p != nil {
		return nil
	}
	if perm != "" && p.HasPermission(perm) {
		return nil
	}
	log := logger.FromContext(ctx, r.logger)
	if p == nil {
		log.Warn("Permission denied for anonymous caller", zap.String("permission", perm))
	} else {
		log.Warn("Permission denied", zap.String("user_id", p.UserID), zap.String("permission", perm))
	}
	return PermissionDeniedError{}
}

// ---- queries ----

func (r *Resolver) Channel(ctx context.Context, args struct{ ID graphql.ID }) (*channelResolver, error) {
	if err := r.require(ctx, ""); err != nil {
		return nil, err
	}
	id, err := FromGlobalID(args.ID, TypeChannel)
	if err != nil {
		return nil, err
	}
	channel, svcErr := r.channels.GetChannel(ctx, id)
	if svcErr != nil {
		if svcErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, svcErr
	}
	return &channelResolver{c: channel}, nil
}

func (r *Resolver) Channels(ctx context.Context) ([]*channelResolver, error) {
	if err := r.require(ctx, ""); err != nil {
		return nil, err
	}
	channels, svcErr := r.channels.ListChannels(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	out := make([]*channelResolver, len(channels))
	for i := range channels {
		out[i] = &channelResolver{c: &channels[i]}
	}
	return out, nil
}

func (r *Resolver) ShippingZones(ctx context.Context) ([]*shippingZoneResolver, error) {
	if err := r.require(ctx, middleware.PermissionManageShipping); err != nil {
		return nil, err
	}
	zones, svcErr := r.channels.ListShippingZones(ctx)
	if svcErr != nil {
		return nil, svcErr
	}
	return zoneResolvers(zones), nil
}

// ---- mutations ----

type channelCreateInput struct {
	Name             string
	Slug             string
	CurrencyCode     string
	IsActive         *bool
	AddShippingZones *[]graphql.ID
}

type channelUpdateInput struct {
	Name                *string
	Slug                *string
	AddShippingZones    *[]graphql.ID
	RemoveShippingZones *[]graphql.ID
}

func (r *Resolver) ChannelCreate(ctx context.Context, args struct{ Input channelCreateInput }) (*channelPayloadResolver, error) {
	if err := r.require(ctx, middleware.PermissionManageChannels); err != nil {
		return nil, err
	}

	zones, errs := decodeZones("addShippingZones", args.Input.AddShippingZones)
	if len(errs) > 0 {
		return &channelPayloadResolver{errs: errs}, nil
	}

	input := services.CreateChannelInput{
		Name:             args.Input.Name,
		Slug:             args.Input.Slug,
		CurrencyCode:     args.Input.CurrencyCode,
		AddShippingZones: zones,
	}
	if args.Input.IsActive != nil {
		input.IsActive = *args.Input.IsActive
	}

	channel, chErrs, svcErr := r.channels.CreateChannel(ctx, input)
	if svcErr != nil {
		return nil, svcErr
	}
	return newPayload(channel, chErrs), nil
}

func (r *Resolver) ChannelUpdate(ctx context.Context, args struct {
	ID    graphql.ID
	Input channelUpdateInput
}) (*channelPayloadResolver, error) {
	if err := r.require(ctx, middleware.PermissionManageChannels); err != nil {
		return nil, err
	}

	var errs []services.ChannelError
	id, err := FromGlobalID(args.ID, TypeChannel)
	if err != nil {
		errs = append(errs, services.ChannelError{Field: "id", Code: services.ChannelErrorGraphQL, Message: err.Error()})
	}
	add, addErrs := decodeZones("addShippingZones", args.Input.AddShippingZones)
	remove, removeErrs := decodeZones("removeShippingZones", args.Input.RemoveShippingZones)
	errs = append(append(errs, addErrs...), removeErrs...)
	if len(errs) > 0 {
		return &channelPayloadResolver{errs: errs}, nil
	}

	channel, chErrs, svcErr := r.channels.UpdateChannel(ctx, id, services.UpdateChannelInput{
		Name:                args.Input.Name,
		Slug:                args.Input.Slug,
		AddShippingZones:    add,
		RemoveShippingZones: remove,
	})
	if svcErr != nil {
		return nil, svcErr
	}
	return newPayload(channel, chErrs), nil
}

func decodeZones(field string, gids *[]graphql.ID) ([]uuid.UUID, []services.ChannelError) {
	if gids == nil {
		return nil, nil
	}
	ids, err := fromGlobalIDs(*gids, TypeShippingZone)
	if err != nil {
		return nil, []services.ChannelError{{Field: field, Code: services.ChannelErrorGraphQL, Message: err.Error()}}
	}
	return ids, nil
}

// ---- object resolvers ----

type channelPayloadResolver struct {
	channel *models.Channel
	errs    []services.ChannelError
}

func newPayload(channel *models.Channel, errs []services.ChannelError) *channelPayloadResolver {
	return &channelPayloadResolver{channel: channel, errs: errs}
}

func (p *channelPayloadResolver) Channel() *channelResolver {
	if p.channel == nil {
		return nil
	}
	return &channelResolver{c: p.channel}
}

func (p *channelPayloadResolver) ChannelErrors() []*channelErrorResolver {
	out := make([]*channelErrorResolver, len(p.errs))
	for i := range p.errs {
		out[i] = &channelErrorResolver{e: p.errs[i]}
	}
	return out
}

type channelErrorResolver struct {
	e services.ChannelError
}

func (r *channelErrorResolver) Field() *string {
	if r.e.Field == "" {
		return nil
	}
	return &r.e.Field
}

func (r *channelErrorResolver) Message() *string {
	if r.e.Message == "" {
		return nil
	}
	return &r.e.Message
}

func (r *channelErrorResolver) Code() string { return string(r.e.Code) }

func (r *channelErrorResolver) ShippingZones() *[]graphql.ID {
	if len(r.e.ShippingZones) == 0 {
		return nil
	}
	ids := make([]graphql.ID, len(r.e.ShippingZones))
	for i, id := range r.e.ShippingZones {
		ids[i] = ToGlobalID(TypeShippingZone, id)
	}
	return &ids
}

type channelResolver struct {
	c *models.Channel
}

func (r *channelResolver) ID() graphql.ID       { return ToGlobalID(TypeChannel, r.c.ID) }
func (r *channelResolver) Name() string         { return r.c.Name }
func (r *channelResolver) Slug() string         { return r.c.Slug }
func (r *channelResolver) CurrencyCode() string { return r.c.CurrencyCode }
func (r *channelResolver) IsActive() bool       { return r.c.IsActive }

func (r *channelResolver) ShippingZones() []*shippingZoneResolver {
	return zoneResolvers(r.c.ShippingZones)
}

type shippingZoneResolver struct {
	z *models.ShippingZone
}

func zoneResolvers(zones []models.ShippingZone) []*shippingZoneResolver {
	out := make([]*shippingZoneResolver, len(zones))
	for i := range zones {
		out[i] = &shippingZoneResolver{z: &zones[i]}
	}
	return out
}

func (r *shippingZoneResolver) ID() graphql.ID { return ToGlobalID(TypeShippingZone, r.z.ID) }
func (r *shippingZoneResolver) Name() string   { return r.z.Name }
func (r *shippingZoneResolver) Default() bool  { return r.z.Default }

func (r *shippingZoneResolver) Countries() []string {
	if r.z.Countries == nil {
		return []string{}
	}
	return r.z.Countries
}
