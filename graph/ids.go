package graph

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/graph-gophers/graphql-go"
)

// Node type names used in global ids.
const (
	TypeChannel      = "Channel"
	TypeShippingZone = "ShippingZone"
)

// ToGlobalID encodes a relay global id: base64("<type>:<uuid>").
func ToGlobalID(typeName string, id uuid.UUID) graphql.ID {
	return graphql.ID(base64.StdEncoding.EncodeToString([]byte(typeName + ":" + id.String())))
}

// FromGlobalID decodes a relay global id and checks that it names a node of typeName.
func FromGlobalID(gid graphql.ID, typeName string) (uuid.UUID, error) {
	raw, err := base64.StdEncoding.DecodeString(string(gid))
	if err != nil {
		return uuid.Nil, fmt.Errorf("couldn't resolve id: %s", gid)
	}
	kind, value, ok := strings.Cut(string(raw), ":")
	if !ok {
		return uuid.Nil, fmt.Errorf("couldn't resolve id: %s", gid)
	}
	if kind != typeName {
		return uuid.Nil, fmt.Errorf("must receive a %s id", typeName)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("couldn't resolve id: %s", gid)
	}
	return id, nil
}

func fromGlobalIDs(gids []graphql.ID, typeName string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(gids))
	for _, gid := range gids {
		id, err := FromGlobalID(gid, typeName)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
