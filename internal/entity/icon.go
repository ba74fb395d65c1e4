package entity

// Icon is a custom icon chosen for an instance or a profile.
type Icon struct {
	OwnerID string `gorm:"primaryKey"`
	Profile bool   `gorm:"primaryKey"`
	Path    string
}
