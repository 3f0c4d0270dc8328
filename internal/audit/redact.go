package audit

import (
	"encoding/json"
	"strings"
)

// MaskToken replaces every redacted value.
const MaskToken = "***"

// sensitiveFragments flags a JSON key as personal data when its lowercase form
// contains any of these fragments. "name" intentionally also catches
// "firstName" and "surname".
var sensitiveFragments = []string{
	"pesel",
	"email",
	"phone",
	"address",
	"documentnumber",
	"personalidnumber",
	"name",
	"surname",
	"birthdate",
	"street",
	"city",
	"zip",
}

// Redact renders v as JSON with every sensitive field masked. A value that
// cannot be marshalled redacts to null rather than failing the caller.
func Redact(v any) json.RawMessage {
	if v == nil {
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return json.RawMessage("null")
	}

	masked, err := json.Marshal(maskValue(decoded))
	if err != nil {
		return json.RawMessage("null")
	}
	return masked
}

func maskValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, inner := range value {
			if isSensitiveKey(key) {
				out[key] = MaskToken
				continue
			}
			out[key] = maskValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, inner := range value {
			out[i] = maskValue(inner)
		}
		return out
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, fragment := range sensitiveFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}
