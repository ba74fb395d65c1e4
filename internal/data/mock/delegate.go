// Package mock provides an in-memory store delegate for tests.
package mock

import (
	"errors"

	"lodestone.dev/frontend/internal/entity"
)

type iconKey struct {
	owner   string
	profile bool
}

type MockDelegate struct {
	FailOpen    bool
	FailMigrate bool

	Opened    bool
	Closed    bool
	Migrated  bool
	variables map[string]string
	pins      map[string]bool
	icons     map[iconKey]entity.Icon
}

func (mockDelegate *MockDelegate) Open() error {
	if mockDelegate.FailOpen {
		return errors.New("cannot open store")
	}
	mockDelegate.Opened = true
	mockDelegate.variables = make(map[string]string)
	mockDelegate.pins = make(map[string]bool)
	mockDelegate.icons = make(map[iconKey]entity.Icon)
	return nil
}

func (mockDelegate *MockDelegate) Migrate() error {
	if mockDelegate.FailMigrate {
		return errors.New("cannot migrate store")
	}
	mockDelegate.Migrated = true
	return nil
}

func (mockDelegate *MockDelegate) Close() error {
	mockDelegate.Closed = true
	return nil
}

func (mockDelegate *MockDelegate) SetVariable(name string, value string) error {
	mockDelegate.variables[name] = value
	return nil
}

func (mockDelegate *MockDelegate) Variable(name string) (string, bool, error) {
	value, ok := mockDelegate.variables[name]
	return value, ok, nil
}

func (mockDelegate *MockDelegate) DeleteVariable(name string) error {
	delete(mockDelegate.variables, name)
	return nil
}

func (mockDelegate *MockDelegate) SavePin(instanceID string) error {
	mockDelegate.pins[instanceID] = true
	return nil
}

func (mockDelegate *MockDelegate) DeletePin(instanceID string) error {
	delete(mockDelegate.pins, instanceID)
	return nil
}

func (mockDelegate *MockDelegate) Pins() (pins []string, err error) {
	for pin := range mockDelegate.pins {
		pins = append(pins, pin)
	}
	return
}

func (mockDelegate *MockDelegate) SaveIcon(icon entity.Icon) error {
	mockDelegate.icons[iconKey{owner: icon.OwnerID, profile: icon.Profile}] = icon
	return nil
}

func (mockDelegate *MockDelegate) DeleteIcon(ownerID string, profile bool) error {
	delete(mockDelegate.icons, iconKey{owner: ownerID, profile: profile})
	return nil
}

func (mockDelegate *MockDelegate) Icon(ownerID string, profile bool) (entity.Icon, bool, error) {
	icon, ok := mockDelegate.icons[iconKey{owner: ownerID, profile: profile}]
	return icon, ok, nil
}
