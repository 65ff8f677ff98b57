package common

import (
	"encoding/json"
	"strings"
)

var redactedKeys = map[string]struct{}{
	"password":      {},
	"password_hash": {},
	"token":         {},
	"refresh_token": {},
	"access_token":  {},
	"device_token":  {},
}

const redactedValue = "[REDACTED]"

// RedactPayload decodes a JSON request body and masks credential fields at any
// depth. Bodies that are not JSON objects are summarised by size only.
func RedactPayload(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return map[string]int{"bytes": len(body)}
	}
	return redact(decoded)
}

func redact(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, inner := range val {
			if _, secret := redactedKeys[strings.ToLower(k)]; secret {
				val[k] = redactedValue
				continue
			}
			val[k] = redact(inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = redact(inner)
		}
		return val
	}
	return v
}
