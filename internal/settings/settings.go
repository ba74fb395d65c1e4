// Package settings keeps the user preferences of the launcher in a TOML
// file. Defaults are seeded on first start; values already saved by the
// user are never overwritten.
package settings

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

const settingsFileName = "preferences.cfg"

const (
	KeyTheme            = "theme"
	KeyLanguage         = "language"
	KeySidebarExpanded  = "sidebar_expanded"
	KeyAnimations       = "animations_enabled"
	KeyShowSnapshots    = "show_snapshot_versions"
	KeyConfirmKill      = "confirm_kill_instance"
	KeyDefaultRepo      = "default_repository"
	KeyPackageStability = "package_stability"
)

type Manager struct {
	BasePath string

	mutex    sync.Mutex
	settings map[string]interface{}
}

func NewManager(basePath string) *Manager {
	return &Manager{BasePath: basePath}
}

func (manager *Manager) configPath() string {
	return filepath.Join(manager.BasePath, settingsFileName)
}

// Initialize seeds the defaults, merges any previously saved values on
// top of them and rewrites the preferences file.
func (manager *Manager) Initialize() (err error) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	manager.settings = make(map[string]interface{})
	manager.setDefaultConfiguration()
	if err = manager.sync(); err != nil {
		logrus.Error("Cannot synchronize the preferences file")
		logrus.Errorf("%+v", err)
	}
	return
}

func (manager *Manager) setDefaultConfiguration() {
	manager.settings[KeyTheme] = "dark"
	manager.settings[KeyLanguage] = "en"
	manager.settings[KeySidebarExpanded] = true
	manager.settings[KeyAnimations] = true
	manager.settings[KeyShowSnapshots] = false
	manager.settings[KeyConfirmKill] = true
	manager.settings[KeyDefaultRepo] = "std"
	manager.settings[KeyPackageStability] = "stable"
}

// sync merges the values already on disk into the in-memory map without
// overwriting them, then rewrites the file. Callers hold the mutex.
func (manager *Manager) sync() (err error) {
	savedSettingsMap := make(map[string]interface{})
	configFilePath := manager.configPath()
	if _, err = os.Stat(configFilePath); !os.IsNotExist(err) {
		var configFileData []byte
		if configFileData, err = os.ReadFile(configFilePath); err != nil {
			return
		}
		if err = toml.Unmarshal(configFileData, &savedSettingsMap); err != nil {
			return
		}
	}
	for settingKey, settingValue := range savedSettingsMap {
		manager.settings[settingKey] = settingValue
	}
	if err = os.MkdirAll(manager.BasePath, 0755); err != nil {
		return
	}
	var file *os.File
	if file, err = os.OpenFile(configFilePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644); err != nil {
		return
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if err = toml.NewEncoder(writer).Encode(manager.settings); err != nil {
		return
	}
	return writer.Flush()
}

// Get returns the stored value for a preference key.
func (manager *Manager) Get(key string) (interface{}, bool) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	value, ok := manager.settings[key]
	return value, ok
}

func (manager *Manager) GetString(key string) string {
	value, ok := manager.Get(key)
	if !ok {
		return ""
	}
	text, _ := value.(string)
	return text
}

func (manager *Manager) GetBool(key string) bool {
	value, ok := manager.Get(key)
	if !ok {
		return false
	}
	flag, _ := value.(bool)
	return flag
}

// Set stores a preference value and rewrites the file.
func (manager *Manager) Set(key string, value interface{}) (err error) {
	manager.mutex.Lock()
	defer manager.mutex.Unlock()
	manager.settings[key] = value
	return manager.write()
}

// write rewrites the file from the in-memory map. Callers hold the mutex.
func (manager *Manager) write() (err error) {
	if err = os.MkdirAll(manager.BasePath, 0755); err != nil {
		return
	}
	var file *os.File
	if file, err = os.OpenFile(manager.configPath(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644); err != nil {
		return
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if err = toml.NewEncoder(writer).Encode(manager.settings); err != nil {
		return
	}
	return writer.Flush()
}
