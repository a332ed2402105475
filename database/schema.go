package database

import (
	"fmt"
	"strings"

	"storefront-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const mysqlUUIDType = "char(36)"

// PrepareSchema registers the channel/zone join model and, on MySQL, rewrites
// the cached model schemas so uuid columns become char(36) without the
// Postgres gen_random_uuid() default. Models assign their own IDs before
// insert, so the default is never needed. Call it once per connection before
// migrating or querying.
func PrepareSchema(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Channel{}, "ShippingZones", &models.ChannelShippingZone{}); err != nil {
		return fmt.Errorf("setup channel_shipping_zones: %w", err)
	}
	if db.Dialector.Name() != "mysql" {
		return nil
	}

	for _, model := range Tables() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("parse %T: %w", model, err)
		}
		adaptUUIDColumns(stmt.Schema)
	}
	return nil
}

func adaptUUIDColumns(s *schema.Schema) {
	for _, field := range s.Fields {
		if !strings.EqualFold(string(field.DataType), "uuid") {
			continue
		}
		field.DataType = mysqlUUIDType
		if strings.HasPrefix(field.DefaultValue, "gen_random_uuid") {
			field.HasDefaultValue = false
			field.DefaultValue = ""
		}
	}

	kept := s.FieldsWithDefaultDBValue[:0]
	for _, field := range s.FieldsWithDefaultDBValue {
		if field.HasDefaultValue {
			kept = append(kept, field)
		}
	}
	s.FieldsWithDefaultDBValue = kept
}
