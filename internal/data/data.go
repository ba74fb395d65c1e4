// Package data persists small pieces of launcher UI state between
// sessions: pins, icons, the current user and the last visited places.
package data

import (
	"encoding/json"
	"sort"

	"github.com/sirupsen/logrus"
	"lodestone.dev/frontend/internal/data/delegate"
	"lodestone.dev/frontend/internal/entity"
)

const (
	variableOpenedBefore       = "launcher_opened_before"
	variableCurrentUser        = "current_user"
	variableLastRepository     = "last_repository"
	variableLastAddedPackage   = "last_added_package"
	variableLastOpenedInstance = "last_opened_instance"
)

// Location points at an instance or a profile.
type Location struct {
	ID      string `json:"id"`
	Profile bool   `json:"profile"`
}

// Store is the typed API over the persistence delegate.
type Store struct {
	delegate delegate.StoreDelegate
}

func NewStore(storeDelegate delegate.StoreDelegate) *Store {
	return &Store{delegate: storeDelegate}
}

// Initialize opens the underlying store and applies migrations.
func (store *Store) Initialize() (err error) {
	logrus.Info("Opening launcher data store")
	if err = store.delegate.Open(); err != nil {
		return
	}
	return store.delegate.Migrate()
}

func (store *Store) Close() error {
	return store.delegate.Close()
}

// OpenedBefore reports whether the launcher has ever been opened.
func (store *Store) OpenedBefore() (bool, error) {
	value, ok, err := store.delegate.Variable(variableOpenedBefore)
	return ok && value == "true", err
}

func (store *Store) MarkOpened() error {
	return store.delegate.SetVariable(variableOpenedBefore, "true")
}

func (store *Store) CurrentUser() (string, error) {
	value, _, err := store.delegate.Variable(variableCurrentUser)
	return value, err
}

func (store *Store) SetCurrentUser(user string) error {
	return store.delegate.SetVariable(variableCurrentUser, user)
}

func (store *Store) LastRepository() (string, error) {
	value, _, err := store.delegate.Variable(variableLastRepository)
	return value, err
}

func (store *Store) SetLastRepository(repository string) error {
	return store.delegate.SetVariable(variableLastRepository, repository)
}

func (store *Store) LastAddedPackage() (Location, bool, error) {
	return store.location(variableLastAddedPackage)
}

func (store *Store) SetLastAddedPackage(location Location) error {
	return store.setLocation(variableLastAddedPackage, location)
}

func (store *Store) LastOpenedInstance() (Location, bool, error) {
	return store.location(variableLastOpenedInstance)
}

func (store *Store) SetLastOpenedInstance(location Location) error {
	return store.setLocation(variableLastOpenedInstance, location)
}

func (store *Store) location(name string) (Location, bool, error) {
	value, ok, err := store.delegate.Variable(name)
	if err != nil || !ok {
		return Location{}, false, err
	}
	var location Location
	if err = json.Unmarshal([]byte(value), &location); err != nil {
		// A corrupt entry is dropped rather than propagated.
		logrus.Warn("Discarding malformed stored location ", name, ": ", err)
		return Location{}, false, store.delegate.DeleteVariable(name)
	}
	return location, true, nil
}

func (store *Store) setLocation(name string, location Location) error {
	encoded, err := json.Marshal(location)
	if err != nil {
		return err
	}
	return store.delegate.SetVariable(name, string(encoded))
}

func (store *Store) Pin(instanceID string) error {
	return store.delegate.SavePin(instanceID)
}

func (store *Store) Unpin(instanceID string) error {
	return store.delegate.DeletePin(instanceID)
}

func (store *Store) IsPinned(instanceID string) (bool, error) {
	pins, err := store.delegate.Pins()
	if err != nil {
		return false, err
	}
	for _, pin := range pins {
		if pin == instanceID {
			return true, nil
		}
	}
	return false, nil
}

// Pins returns the pinned instance ids, sorted.
func (store *Store) Pins() ([]string, error) {
	pins, err := store.delegate.Pins()
	if err != nil {
		return nil, err
	}
	sort.Strings(pins)
	return pins, nil
}

func (store *Store) SetIcon(ownerID string, profile bool, path string) error {
	return store.delegate.SaveIcon(entity.Icon{OwnerID: ownerID, Profile: profile, Path: path})
}

func (store *Store) Icon(ownerID string, profile bool) (string, bool, error) {
	icon, ok, err := store.delegate.Icon(ownerID, profile)
	return icon.Path, ok, err
}

func (store *Store) RemoveIcon(ownerID string, profile bool) error {
	return store.delegate.DeleteIcon(ownerID, profile)
}
