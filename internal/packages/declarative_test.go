package packages_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"lodestone.dev/frontend/internal/packages"
)

func TestListOrSingleNormalizesBothForms(t *testing.T) {
	var relations packages.Relations

	err := json.Unmarshal([]byte(`{"dependencies":"fabric-api","conflicts":["optifine","other"]}`), &relations)
	assert.NoError(t, err)
	assert.Equal(t, packages.ListOrSingle{"fabric-api"}, relations.Dependencies)
	assert.Equal(t, packages.ListOrSingle{"optifine", "other"}, relations.Conflicts)
	assert.Nil(t, relations.Extensions)
}

func TestConditionSetFlattensIntoVersionRecord(t *testing.T) {
	var record packages.DeclarativeAddonVersion

	payload := `{"version":"1","minecraft_versions":["1.19.2"],"loaders":"fabric","stability":"stable"}`
	err := json.Unmarshal([]byte(payload), &record)
	assert.NoError(t, err)
	assert.Equal(t, "1", record.Version)
	assert.Equal(t, packages.ListOrSingle{"1.19.2"}, record.MinecraftVersions)
	assert.Equal(t, packages.ListOrSingle{"fabric"}, record.Loaders)
	assert.Equal(t, "stable", record.Stability)
}
