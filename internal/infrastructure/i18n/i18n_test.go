package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		header   string
		expected language.Tag
	}{
		{"", Spanish},
		{"es-AR,es;q=0.9", Spanish},
		{"en-US,en;q=0.8", English},
		{"fr-FR", Spanish},
		{"de;q=0.9, en;q=0.5", English},
		{"not a header;;", Spanish},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, Match(tt.header))
		})
	}
}

func TestTranslate(t *testing.T) {
	t.Run("spanish keeps the domain message", func(t *testing.T) {
		got := Translate(Spanish, "LIMIT_REACHED", "Límite alcanzado")
		assert.Equal(t, "Límite alcanzado", got)
	})

	t.Run("english translates domain codes", func(t *testing.T) {
		assert.Equal(t, "Limit reached", Translate(English, "LIMIT_REACHED", "Límite alcanzado"))
		assert.Equal(t, "The cash register is closed", Translate(English, "REGISTER_CLOSED", "La caja está cerrada"))
	})

	t.Run("http codes exist in both locales", func(t *testing.T) {
		assert.Equal(t, "Debes iniciar sesión", Translate(Spanish, "ERR_UNAUTHORIZED", ""))
		assert.Equal(t, "You must sign in", Translate(English, "ERR_UNAUTHORIZED", ""))
	})

	t.Run("unknown code falls back", func(t *testing.T) {
		assert.Equal(t, "Algo pasó", Translate(English, "SOMETHING_NEW", "Algo pasó"))
	})
}

func TestLocalizer(t *testing.T) {
	l := NewLocalizer(Match("en"))
	assert.Equal(t, "en", l.Base())
	assert.Equal(t, "Wrong password", l.Translate("WRONG_PASSWORD", "Contraseña incorrecta"))

	es := NewLocalizer(Spanish)
	assert.Equal(t, "es", es.Base())
	assert.Equal(t, "Contraseña incorrecta", es.Translate("WRONG_PASSWORD", "Contraseña incorrecta"))
}

func TestCatalogsCoverHTTPCodes(t *testing.T) {
	for code := range spanish {
		_, ok := english[code]
		assert.True(t, ok, "missing english text for %s", code)
	}
}
