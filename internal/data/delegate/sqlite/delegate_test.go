package sqlite_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"lodestone.dev/frontend/internal/data/delegate/sqlite"
	"lodestone.dev/frontend/internal/entity"
)

const TEST_FOLDER_PATH = "test"

func clearTestEnvironment() {
	os.RemoveAll(TEST_FOLDER_PATH)
}

func openedDelegate(t *testing.T) *sqlite.SQLiteDelegate {
	clearTestEnvironment()
	s := &sqlite.SQLiteDelegate{BasePath: TEST_FOLDER_PATH}
	if err := s.Open(); err != nil {
		t.Fatal(err)
	}
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestOpenAndClose(t *testing.T) {
	clearTestEnvironment()
	s := &sqlite.SQLiteDelegate{BasePath: TEST_FOLDER_PATH}
	if err := s.Open(); err != nil {
		t.Log(err)
		t.Fail()
	}
	s.Close()
	clearTestEnvironment()
}

func TestOpenAfterFirstCreation(t *testing.T) {
	clearTestEnvironment()
	s := &sqlite.SQLiteDelegate{BasePath: TEST_FOLDER_PATH}
	if err := s.Open(); err != nil {
		t.Log(err)
		t.Fail()
	}
	s.Close()
	if err := s.Open(); err != nil {
		t.Log(err)
		t.Fail()
	}
	s.Close()
	clearTestEnvironment()
}

func TestVariables(t *testing.T) {
	s := openedDelegate(t)
	defer s.Close()
	defer clearTestEnvironment()

	_, ok, err := s.Variable("last_repository")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.SetVariable("last_repository", "modrinth"))
	assert.NoError(t, s.SetVariable("last_repository", "smithed"))

	value, ok, err := s.Variable("last_repository")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "smithed", value)

	assert.NoError(t, s.DeleteVariable("last_repository"))
	_, ok, _ = s.Variable("last_repository")
	assert.False(t, ok)
}

func TestPinsSurviveReopen(t *testing.T) {
	s := openedDelegate(t)

	assert.NoError(t, s.SavePin("survival"))
	assert.NoError(t, s.SavePin("survival")) // saving twice is fine
	assert.NoError(t, s.SavePin("creative"))
	s.Close()

	s = &sqlite.SQLiteDelegate{BasePath: TEST_FOLDER_PATH}
	assert.NoError(t, s.Open())
	defer s.Close()
	defer clearTestEnvironment()

	pins, err := s.Pins()
	assert.NoError(t, err)
	assert.Equal(t, []string{"creative", "survival"}, pins)
}

func TestIcons(t *testing.T) {
	s := openedDelegate(t)
	defer s.Close()
	defer clearTestEnvironment()

	assert.NoError(t, s.SaveIcon(entity.Icon{OwnerID: "survival", Profile: false, Path: "a.png"}))
	assert.NoError(t, s.SaveIcon(entity.Icon{OwnerID: "survival", Profile: true, Path: "b.png"}))

	icon, ok, err := s.Icon("survival", false)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a.png", icon.Path)

	icon, ok, _ = s.Icon("survival", true)
	assert.True(t, ok)
	assert.Equal(t, "b.png", icon.Path)

	assert.NoError(t, s.DeleteIcon("survival", false))
	_, ok, _ = s.Icon("survival", false)
	assert.False(t, ok)
}
