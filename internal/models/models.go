package models

import "strings"

func containsFold(needle string, haystack ...string) bool {
	needle = strings.ToLower(needle)
	return strings.Contains(strings.ToLower(strings.Join(haystack, " ")), needle)
}

func joinStrings(values []string) string {
	return strings.Join(values, " ")
}
