package db

import "errors"

var errDBUnavailable = errors.New("db unavailable")

func strPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func strValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
