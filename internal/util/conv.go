package util

import "strings"

// ParseBool 兼容 "true"/"1"/"yes"
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}
