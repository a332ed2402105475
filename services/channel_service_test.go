package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"storefront-service/models"
	"storefront-service/repository"
	"storefront-service/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ---- in-memory channel repository ----

type memChannelRepo struct {
	channels  map[uuid.UUID]*models.Channel
	zones     map[uuid.UUID]models.ShippingZone
	listings  map[uuid.UUID][]uuid.UUID // channel -> zone ids whose method listings exist
	updates   int
	updateErr error
}

func newMemChannelRepo(zones ...models.ShippingZone) *memChannelRepo {
	r := &memChannelRepo{
		channels: map[uuid.UUID]*models.Channel{},
		zones:    map[uuid.UUID]models.ShippingZone{},
		listings: map[uuid.UUID][]uuid.UUID{},
	}
	for _, z := range zones {
		r.zones[z.ID] = z
	}
	return r
}

func (r *memChannelRepo) add(c models.Channel) *models.Channel {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.channels[c.ID] = &c
	return &c
}

func (r *memChannelRepo) Create(_ context.Context, c *models.Channel, zoneIDs []uuid.UUID) error {
	c.ID = uuid.New()
	stored := *c
	for _, id := range zoneIDs {
		stored.ShippingZones = append(stored.ShippingZones, r.zones[id])
	}
	r.channels[c.ID] = &stored
	return nil
}

func (r *memChannelRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Channel, error) {
	c, ok := r.channels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	cp.ShippingZones = append([]models.ShippingZone(nil), c.ShippingZones...)
	return &cp, nil
}

func (r *memChannelRepo) FindBySlug(_ context.Context, slug string) (*models.Channel, error) {
	for _, c := range r.channels {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memChannelRepo) FindAll(_ context.Context) ([]models.Channel, error) {
	var out []models.Channel
	for _, c := range r.channels {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memChannelRepo) Update(_ context.Context, id uuid.UUID, ch repository.ChannelChanges) error {
	r.updates++
	if r.updateErr != nil {
		return r.updateErr
	}
	c := r.channels[id]
	if ch.Name != nil {
		c.Name = *ch.Name
	}
	if ch.Slug != nil {
		c.Slug = *ch.Slug
	}
	for _, zid := range ch.AddShippingZones {
		c.ShippingZones = append(c.ShippingZones, r.zones[zid])
	}
	removed := map[uuid.UUID]bool{}
	for _, zid := range ch.RemoveShippingZones {
		removed[zid] = true
	}
	kept := c.ShippingZones[:0]
	for _, z := range c.ShippingZones {
		if !removed[z.ID] {
			kept = append(kept, z)
		}
	}
	c.ShippingZones = kept
	var listings []uuid.UUID
	for _, zid := range r.listings[id] {
		if !removed[zid] {
			listings = append(listings, zid)
		}
	}
	r.listings[id] = listings
	return nil
}

// ---- shipping repository stub ----

type stubShippingRepo struct {
	zones      map[uuid.UUID]models.ShippingZone
	records    []models.ShippingMethodCountry
	taxRate    *models.CountryTaxRate
	gotCountry string
}

func (s *stubShippingRepo) FindZonesByIDs(_ context.Context, ids []uuid.UUID) ([]models.ShippingZone, error) {
	var out []models.ShippingZone
	for _, id := range ids {
		if z, ok := s.zones[id]; ok {
			out = append(out, z)
		}
	}
	return out, nil
}
func (s *stubShippingRepo) FindAllZones(_ context.Context) ([]models.ShippingZone, error) {
	var out []models.ShippingZone
	for _, z := range s.zones {
		out = append(out, z)
	}
	return out, nil
}
func (s *stubShippingRepo) FindMethodCountries(_ context.Context, country string) ([]models.ShippingMethodCountry, error) {
	s.gotCountry = country
	return s.records, nil
}
func (s *stubShippingRepo) FindTaxRate(_ context.Context, _ string) (*models.CountryTaxRate, error) {
	return s.taxRate, nil
}

// ---- mock SNS publisher ----

type mockSNS struct {
	messages   [][]byte
	publishErr error
}

func (m *mockSNS) Publish(_ context.Context, _ string, msg []byte) error {
	m.messages = append(m.messages, msg)
	return m.publishErr
}

// ---- helpers ----

type fixture struct {
	repo    *memChannelRepo
	sns     *mockSNS
	svc     services.ChannelService
	zoneA   models.ShippingZone
	zoneB   models.ShippingZone
	channel *models.Channel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	zoneA := models.ShippingZone{ID: uuid.New(), Name: "Europe"}
	zoneB := models.ShippingZone{ID: uuid.New(), Name: "Americas"}
	repo := newMemChannelRepo(zoneA, zoneB)
	channel := repo.add(models.Channel{
		Name:          "Main Channel",
		Slug:          "main-channel",
		CurrencyCode:  "USD",
		ShippingZones: []models.ShippingZone{zoneA},
	})
	repo.listings[channel.ID] = []uuid.UUID{zoneA.ID}

	shipping := &stubShippingRepo{zones: repo.zones}
	sns := &mockSNS{}
	svc := services.NewChannelService(repo, shipping, sns, "arn:aws:sns:us-east-1:000000000000:channels", zap.NewNop())
	return &fixture{repo: repo, sns: sns, svc: svc, zoneA: zoneA, zoneB: zoneB, channel: channel}
}

func strPtr(s string) *string { return &s }

// ---- tests ----

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Invalid slug":   "invalid-slug",
		"new_slug":       "new_slug",
		"  Channel USD ": "channel-usd",
		"UPPER--case!!":  "upper-case",
		"Tom & Jerry":    "tom-jerry",
		"a@b.com":        "a-b-com",
		"&Co":            "co",
		"Straße":         "strasse",
		"Crème Brûlée":   "creme-brulee",
	}
	for in, want := range cases {
		assert.Equal(t, want, services.Slugify(in), in)
	}
}

func TestUpdateChannel_NameAndSlug(t *testing.T) {
	f := newFixture(t)

	c, errs, svcErr := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{
		Name: strPtr("newName"),
		Slug: strPtr("new_slug"),
	})
	require.Nil(t, svcErr)
	assert.Empty(t, errs)
	assert.Equal(t, "newName", c.Name)
	assert.Equal(t, "new_slug", c.Slug)
	assert.Equal(t, "USD", c.CurrencyCode)
}

func TestUpdateChannel_OnlyName(t *testing.T) {
	f := newFixture(t)

	c, errs, _ := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{Name: strPtr("Renamed")})
	assert.Empty(t, errs)
	assert.Equal(t, "Renamed", c.Name)
	assert.Equal(t, "main-channel", c.Slug)
}

func TestUpdateChannel_OnlySlugIsSlugified(t *testing.T) {
	f := newFixture(t)

	c, errs, _ := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{Slug: strPtr("Invalid slug")})
	assert.Empty(t, errs)
	assert.Equal(t, "invalid-slug", c.Slug)
	assert.Equal(t, "Main Channel", c.Name)
}

func TestUpdateChannel_SlugTaken(t *testing.T) {
	f := newFixture(t)
	f.repo.add(models.Channel{Name: "Other", Slug: "other", CurrencyCode: "PLN"})

	c, errs, svcErr := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{Slug: strPtr("Other")})
	require.Nil(t, svcErr)
	assert.Nil(t, c)
	require.Len(t, errs, 1)
	assert.Equal(t, "slug", errs[0].Field)
	assert.Equal(t, services.ChannelErrorUnique, errs[0].Code)
	assert.Equal(t, 0, f.repo.updates)
}

func TestUpdateChannel_KeepingOwnSlugIsAllowed(t *testing.T) {
	f := newFixture(t)

	_, errs, _ := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{Slug: strPtr("main-channel")})
	assert.Empty(t, errs)
}

func TestUpdateChannel_UniqueViolationFromStorage(t *testing.T) {
	f := newFixture(t)
	f.repo.updateErr = gorm.ErrDuplicatedKey

	c, errs, svcErr := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{Slug: strPtr("racy")})
	require.Nil(t, svcErr)
	assert.Nil(t, c)
	require.Len(t, errs, 1)
	assert.Equal(t, services.ChannelErrorUnique, errs[0].Code)
}

func TestUpdateChannel_BlankValues(t *testing.T) {
	f := newFixture(t)

	_, errs, _ := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{
		Name: strPtr("  "),
		Slug: strPtr("!!!"),
	})
	require.Len(t, errs, 2)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, services.ChannelErrorRequired, errs[0].Code)
	assert.Equal(t, "slug", errs[1].Field)
	assert.Equal(t, services.ChannelErrorRequired, errs[1].Code)
}

func TestUpdateChannel_AddAndRemoveZones(t *testing.T) {
	f := newFixture(t)

	c, errs, _ := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{
		AddShippingZones:    []uuid.UUID{f.zoneB.ID},
		RemoveShippingZones: []uuid.UUID{f.zoneA.ID},
	})
	assert.Empty(t, errs)
	assert.Equal(t, []uuid.UUID{f.zoneB.ID}, c.ShippingZoneIDs())
	assert.Empty(t, f.repo.listings[f.channel.ID])
}

func TestUpdateChannel_AddingLinkedZoneIsNoop(t *testing.T) {
	f := newFixture(t)

	c, errs, _ := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{
		AddShippingZones: []uuid.UUID{f.zoneA.ID, f.zoneA.ID},
	})
	assert.Empty(t, errs)
	assert.Equal(t, []uuid.UUID{f.zoneA.ID}, c.ShippingZoneIDs())
}

func TestUpdateChannel_DuplicatedZones(t *testing.T) {
	f := newFixture(t)

	c, errs, svcErr := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{
		Name:                strPtr(""),
		AddShippingZones:    []uuid.UUID{f.zoneA.ID, f.zoneB.ID},
		RemoveShippingZones: []uuid.UUID{f.zoneB.ID, f.zoneA.ID},
	})
	require.Nil(t, svcErr)
	assert.Nil(t, c)
	require.Len(t, errs, 1)
	assert.Equal(t, "shippingZones", errs[0].Field)
	assert.Equal(t, services.ChannelErrorDuplicatedInputItem, errs[0].Code)
	assert.Equal(t, []uuid.UUID{f.zoneA.ID, f.zoneB.ID}, errs[0].ShippingZones)
	assert.Equal(t, 0, f.repo.updates)
	assert.Empty(t, f.sns.messages)
}

func TestUpdateChannel_UnknownZone(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	_, errs, _ := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{
		AddShippingZones: []uuid.UUID{f.zoneB.ID, missing},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, services.ChannelErrorNotFound, errs[0].Code)
	assert.Equal(t, []uuid.UUID{missing}, errs[0].ShippingZones)
	assert.Equal(t, 0, f.repo.updates)
}

func TestUpdateChannel_UnknownChannel(t *testing.T) {
	f := newFixture(t)

	c, errs, _ := f.svc.UpdateChannel(context.Background(), uuid.New(), services.UpdateChannelInput{Name: strPtr("x")})
	assert.Nil(t, c)
	require.Len(t, errs, 1)
	assert.Equal(t, "id", errs[0].Field)
	assert.Equal(t, services.ChannelErrorNotFound, errs[0].Code)
}

func TestUpdateChannel_PublishesEvent(t *testing.T) {
	f := newFixture(t)

	_, _, _ = f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{
		AddShippingZones: []uuid.UUID{f.zoneB.ID},
	})
	require.Len(t, f.sns.messages, 1)

	var event models.ChannelUpdatedEvent
	require.NoError(t, json.Unmarshal(f.sns.messages[0], &event))
	assert.Equal(t, "channel_updated", event.EventType)
	assert.Equal(t, []string{f.zoneB.ID.String()}, event.AddedShippingZones)
}

func TestUpdateChannel_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.sns.publishErr = errors.New("sns down")

	c, errs, svcErr := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{Name: strPtr("x")})
	assert.Nil(t, svcErr)
	assert.Empty(t, errs)
	assert.NotNil(t, c)
}

func TestUpdateChannel_StorageFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.updateErr = errors.New("connection reset")

	c, errs, svcErr := f.svc.UpdateChannel(context.Background(), f.channel.ID, services.UpdateChannelInput{Name: strPtr("x")})
	assert.Nil(t, c)
	assert.Empty(t, errs)
	require.NotNil(t, svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)
}

func TestCreateChannel(t *testing.T) {
	f := newFixture(t)

	c, errs, svcErr := f.svc.CreateChannel(context.Background(), services.CreateChannelInput{
		Name:             "Channel PLN",
		Slug:             "Channel PLN",
		CurrencyCode:     "pln",
		AddShippingZones: []uuid.UUID{f.zoneB.ID},
	})
	require.Nil(t, svcErr)
	assert.Empty(t, errs)
	assert.Equal(t, "channel-pln", c.Slug)
	assert.Equal(t, "PLN", c.CurrencyCode)
	assert.Equal(t, []uuid.UUID{f.zoneB.ID}, c.ShippingZoneIDs())
}

func TestCreateChannel_Invalid(t *testing.T) {
	f := newFixture(t)

	_, errs, _ := f.svc.CreateChannel(context.Background(), services.CreateChannelInput{
		Name:         "Dup",
		Slug:         "main-channel",
		CurrencyCode: "ABC",
	})
	require.Len(t, errs, 2)
	assert.Equal(t, services.ChannelErrorUnique, errs[0].Code)
	assert.Equal(t, "currencyCode", errs[1].Field)
	assert.Equal(t, services.ChannelErrorInvalid, errs[1].Code)
}

func TestGetChannel_NotFound(t *testing.T) {
	f := newFixture(t)

	c, svcErr := f.svc.GetChannel(context.Background(), uuid.New())
	assert.Nil(t, c)
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}
