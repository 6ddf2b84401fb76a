package chatkit

// ExtractUpstreamError finds a human-readable message in an upstream error
// payload. Lookup order: error (string), error.message, details (string),
// details.error (string), details.error.message, message. Empty strings are
// skipped. It returns "" when none applies.
func ExtractUpstreamError(payload map[string]any) string {
	if payload == nil {
		return ""
	}

	switch errField := payload["error"].(type) {
	case string:
		if errField != "" {
			return errField
		}
	case map[string]any:
		if message := stringField(errField["message"]); message != "" {
			return message
		}
	}

	switch details := payload["details"].(type) {
	case string:
		if details != "" {
			return details
		}
	case map[string]any:
		switch nested := details["error"].(type) {
		case string:
			if nested != "" {
				return nested
			}
		case map[string]any:
			if message := stringField(nested["message"]); message != "" {
				return message
			}
		}
	}

	return stringField(payload["message"])
}

func stringField(value any) string {
	s, _ := value.(string)
	return s
}
