package translation

import (
	"fmt"
	"strings"
)

type Language string

const (
	Marathi Language = "marathi"
	Hindi   Language = "hindi"
	English Language = "english"
)

func (l Language) String() string {
	return string(l)
}

func (l Language) IsValid() bool {
	switch l {
	case Marathi, Hindi, English:
		return true
	default:
		return false
	}
}

// Code returns the two-letter code used at the gateway boundary.
func (l Language) Code() string {
	switch l {
	case Marathi:
		return "mr"
	case Hindi:
		return "hi"
	case English:
		return "en"
	default:
		return ""
	}
}

// Normalize lowercases a user-supplied language name and reports whether it
// is one of the supported languages.
func Normalize(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	return l, l.IsValid()
}

func NewLanguage(s string) (Language, error) {
	l, ok := Normalize(s)
	if !ok {
		return "", fmt.Errorf("unsupported language: %s", s)
	}
	return l, nil
}

// Supported lists the languages the service can translate between.
func Supported() []Language {
	return []Language{Marathi, Hindi, English}
}
