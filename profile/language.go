package profile

import (
	"fmt"
	"strings"
)

// Language is an instrument command dialect.
type Language int

const (
	// Scpi is the IEEE-488.2 / SCPI dialect.
	Scpi Language = iota
	// Tsp is the Lua based Test Script Processor dialect.
	Tsp
)

type languageInfo struct {
	name        string
	token       string
	description string
}

var languages = map[Language]languageInfo{
	Scpi: {name: "SCPI", token: "SCPI", description: "IEEE-488.2 / SCPI command language"},
	Tsp:  {name: "TSP", token: "TSP", description: "Test Script Processor (Lua) command language"},
}

// String returns the short language name.
func (l Language) String() string {
	if info, ok := languages[l]; ok {
		return info.name
	}

	return fmt.Sprintf("Language(%d)", int(l))
}

// Description returns a human readable description.
func (l Language) Description() string {
	return languages[l].description
}

// ParseLanguage converts "scpi" or "tsp" (any case) to a Language.
func ParseLanguage(s string) (Language, error) {
	s = strings.TrimSpace(s)
	for lang, info := range languages {
		if strings.EqualFold(s, info.token) {
			return lang, nil
		}
	}

	return Scpi, fmt.Errorf("profile: unknown language %q", s)
}
