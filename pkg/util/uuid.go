package util

import (
	"encoding/json"

	"github.com/google/uuid"
)

// HashUUID derives a stable UUID from the json encoding of value, "" if it cannot be encoded
func HashUUID(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return uuid.NewMD5(uuid.Nil, raw).String()
}
