package utils

import (
	"encoding/json"

	"github.com/google/uuid"
)

// StructToMap converts v into a map through a json round-trip so that the
// result matches the json field names used by expression contexts.
func StructToMap(v interface{}) (map[string]interface{}, error) {
	result := map[string]interface{}{}

	if v != nil {
		jsonString, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(jsonString, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func IsValidUUID(u string) bool {
	_, err := uuid.Parse(u)
	return err == nil
}
