package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLanguage(t *testing.T) {
	tests := map[string]string{
		"":                        "en",
		"en-US,en;q=0.9":          "en",
		"zh-TW,zh;q=0.9,en;q=0.8": "zh_TW",
		"zh_TW":                   "zh_TW",
		"zh-Hant":                 "zh_TW",
		"zh;q=0.8":                "zh_TW",
		"fr-FR":                   "en",
		" zh-HK , en":             "zh_TW",
	}

	for header, want := range tests {
		assert.Equal(t, want, resolveLanguage(header), "header %q", header)
	}
}
