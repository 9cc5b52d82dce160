package cmd

import (
	"os"
	"strings"
)

// envInterfaces names the environment variable consulted when no
// --interface flag is given.
const envInterfaces = "WEXTINFO_INTERFACES"

func parseInterfaces(s string) []string {
	var ifaces []string
	if s == "" {
		return ifaces
	}
	parts := strings.Split(s, ",")
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			ifaces = append(ifaces, trimmed)
		}
	}
	return ifaces
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
