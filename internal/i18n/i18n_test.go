package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Ad not found", T("en", KeyAdNotFound))
	assert.Equal(t, "找不到廣告", T("zh_TW", KeyAdNotFound))
	assert.Equal(t, "Time slot already occupied for WEBSITE_BANNER ads", T("en", KeyAdSlotTakenType, "WEBSITE_BANNER"))
	assert.Equal(t, "Ad approved", T("fr", KeyAdApproved))
	assert.Equal(t, "missing.key", T("en", "missing.key"))
	assert.ElementsMatch(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}

func TestLocalesDefineTheSameKeys(t *testing.T) {
	require.NoError(t, Initialize())

	en := instance.translations["en"]
	zh := instance.translations["zh_TW"]
	for key := range en {
		_, ok := zh[key]
		assert.True(t, ok, "zh_TW missing %s", key)
	}
	assert.Len(t, zh, len(en))
}
