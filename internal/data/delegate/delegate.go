package delegate

import "lodestone.dev/frontend/internal/entity"

// StoreDelegate abstracts the persistence of launcher UI data so the
// store can be tested against an in-memory fake.
type StoreDelegate interface {
	Open() error
	Close() error
	Migrate() error

	SetVariable(name string, value string) error
	// Variable returns the stored value, or ok == false when unset.
	Variable(name string) (value string, ok bool, err error)
	DeleteVariable(name string) error

	SavePin(instanceID string) error
	DeletePin(instanceID string) error
	Pins() ([]string, error)

	SaveIcon(icon entity.Icon) error
	DeleteIcon(ownerID string, profile bool) error
	// Icon returns the icon for an owner, or ok == false when unset.
	Icon(ownerID string, profile bool) (icon entity.Icon, ok bool, err error)
}
