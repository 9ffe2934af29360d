// Package validate holds the field predicates used when accepting
// configuration lines. All functions are pure and side-effect free.
package validate

import "regexp"

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	countPattern      = regexp.MustCompile(`^[0-9]+$`)
	macPrefixPattern  = regexp.MustCompile(`^([0-9a-fA-F]{2}:){5}[0-9a-fA-F]{2}$`)
)

// IsDeviceName reports whether s is an acceptable network device name.
func IsDeviceName(s string) bool {
	return identifierPattern.MatchString(s)
}

// IsDriverName reports whether s is an acceptable kernel driver name.
// Drivers follow the same identifier pattern as device names.
func IsDriverName(s string) bool {
	return identifierPattern.MatchString(s)
}

// IsCount reports whether s is a non-negative decimal integer.
func IsCount(s string) bool {
	return countPattern.MatchString(s)
}

// IsBoolToken reports whether s is the literal "true" or "false".
func IsBoolToken(s string) bool {
	return s == "true" || s == "false"
}

// IsMACPrefix reports whether s is a 6-octet colon-separated MAC address.
func IsMACPrefix(s string) bool {
	return macPrefixPattern.MatchString(s)
}
