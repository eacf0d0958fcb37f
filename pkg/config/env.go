package config

import (
	"strconv"
	"strings"
)

// Getenv matches os.Getenv so tests can substitute a map lookup.
type Getenv func(string) string

func normalize(s string) string {
	return strings.TrimSpace(s)
}

func (g Getenv) str(name, def string) string {
	v := normalize(g(name))
	if v == "" {
		return def
	}
	return v
}

func (g Getenv) envInt(name string, def int) int {
	v := normalize(g(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (g Getenv) envInt64(name string, def int64) int64 {
	v := normalize(g(name))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func (g Getenv) envBool(name string, def bool) bool {
	v := strings.ToLower(normalize(g(name)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
