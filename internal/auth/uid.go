package auth

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

var errBadUID = errors.New("malformed uid")

// EncodeUID encodes a user id for use in a URL path segment.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

// DecodeUID reverses EncodeUID. Trailing padding is accepted.
func DecodeUID(s string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil || len(raw) == 0 {
		return 0, errBadUID
	}
	id, err := strconv.ParseUint(string(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, errBadUID
	}
	return uint(id), nil
}
