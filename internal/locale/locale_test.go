package locale_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/locale"
)

func TestCatalog_LiteralStrings(t *testing.T) {
	c := locale.NewCatalog("")

	assert.Equal(t, "Liste des contacts", c.Msg(config.TKeyDocTitle))
	assert.Equal(t, "No contacts available.", c.Msg(config.TKeyEmptyState))
	assert.Equal(t, "Rechercher par nom", c.Msg(config.TKeySearchHolder))
	assert.Equal(t, "Numéro", c.Msg(config.TKeyColNumber))
	assert.Equal(t, "Téléphone", c.Msg(config.TKeyColPhone))
}

func TestCatalog_TemplateData(t *testing.T) {
	c := locale.NewCatalog(config.DefaultLanguage)

	assert.Equal(t, "Votre liste des contacts contient 3 contacts",
		c.Format(config.TKeyHeadingCount, map[string]any{"Count": 3}))
	assert.Equal(t, "Imprimé le: 16/10/2026 17:30:00",
		c.Format(config.TKeyDocPrinted, map[string]any{"Timestamp": "16/10/2026 17:30:00"}))
	assert.Equal(t, "Avatar de Alice",
		c.Format(config.TKeyAvatarAlt, map[string]any{"Name": "Alice"}))
}

func TestCatalog_MissingKeyAndUnknownLanguage(t *testing.T) {
	c := locale.NewCatalog("xx")

	assert.Equal(t, "does_not_exist", c.Msg("does_not_exist"), "Missing keys are echoed back")
	assert.Equal(t, "Liste des contacts", c.Msg(config.TKeyDocTitle), "Unknown languages use the default bundle")
	assert.Contains(t, c.Languages, config.DefaultLanguage)
}

func TestCatalog_NilSafe(t *testing.T) {
	var c *locale.Catalog
	assert.Equal(t, config.TKeyDocTitle, c.Msg(config.TKeyDocTitle))
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in the locale JSON file.
func TestI18nIntegrity(t *testing.T) {
	keysToCheck := []string{
		config.TKeyWinTitle,
		config.TKeyWinSettings,
		config.TKeyHeadingCount,
		config.TKeySortedBy,
		config.TKeySortName,
		config.TKeySortPhone,
		config.TKeySearchHolder,
		config.TKeyBtnSearch,
		config.TKeyBtnExportXLSX,
		config.TKeyBtnExportPDF,
		config.TKeyBtnOpen,
		config.TKeyBtnBrowser,
		config.TKeyBtnSettings,
		config.TKeyBtnSave,
		config.TKeyBtnCancel,
		config.TKeyColNumber,
		config.TKeyColAvatar,
		config.TKeyColName,
		config.TKeyColPhone,
		config.TKeyAvatarAlt,
		config.TKeyAvatarLink,
		config.TKeyEmptyState,
		config.TKeyDocTitle,
		config.TKeyDocPrinted,
		config.TKeySheetName,
		config.TKeyLblPageSize,
		config.TKeyHelpPageSize,
		config.TKeyLblPort,
		config.TKeyHelpPort,
		config.TKeyNotifExported,
		config.TKeyErrPortReq,
		config.TKeyErrPortNum,
		config.TKeyErrPortRange,
		config.TKeyErrPageSizeNum,
		config.TKeyErrPageSizeRng,
		config.TKeyPaginationLabel,
	}

	definedKeys := make(map[string]bool, len(keysToCheck))
	for _, k := range keysToCheck {
		definedKeys[k] = true
	}

	content, err := os.ReadFile("locales/active.fr.json")
	require.NoError(t, err, "Must load active.fr.json")

	var jsonMap map[string]any
	require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

	for key := range definedKeys {
		_, exists := jsonMap[key]
		assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.fr.json", key)
	}

	for jsonKey := range jsonMap {
		if strings.HasPrefix(jsonKey, "_") {
			continue
		}
		assert.Truef(t, definedKeys[jsonKey], "Key '%s' exists in JSON but has no config constant", jsonKey)
	}
}
