package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// duplicateMarkers are the lower-cased fragments mysql, postgres and sqlite
// use when a unique index rejects a write.
var duplicateMarkers = []string{
	"duplicate entry",
	"duplicate key",
	"unique constraint",
}

// IsDuplicateKey reports whether err is a unique index violation.
// TranslateError covers the registered dialects; the message check catches
// drivers that do not translate.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range duplicateMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
