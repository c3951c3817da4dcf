package customer

import (
	"encoding/json"
	"fmt"
)

func encodeUserFields(fields map[string]string) (string, error) {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode user fields failed: %w", err)
	}
	return string(encoded), nil
}
