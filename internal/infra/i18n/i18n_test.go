package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("en-US,en;q=0.9"))
	assert.Equal(t, "en", DetectLanguage("EN-gb"))
	assert.Equal(t, "fr", DetectLanguage("fr-FR,fr;q=0.8,en;q=0.5"))
	assert.Equal(t, "fr", DetectLanguage(""))
	assert.Equal(t, "fr", DetectLanguage("english"))
}

func TestTranslations(t *testing.T) {
	assert.Equal(t, "Identifiant ou mot de passe incorrect.", T("fr", "signin_invalid"))
	assert.Equal(t, "Incorrect username or password.", T("en", "signin_invalid"))
	assert.Equal(t, "__nope__", T("en", "__nope__"))
	assert.Equal(t, "Passer", T("es", "action_skip"))
	assert.Equal(t, "Erreur lors de la mise à jour: X", Tf("fr", "update_rejected", "X"))
}

func TestCataloguesHaveSameCodes(t *testing.T) {
	for code := range messages["fr"] {
		_, ok := messages["en"][code]
		assert.True(t, ok, "missing en message for %q", code)
	}
	for code := range messages["en"] {
		_, ok := messages["fr"][code]
		assert.True(t, ok, "missing fr message for %q", code)
	}
}
