package entity

// Pin marks an instance as pinned on the home page.
type Pin struct {
	InstanceID string `gorm:"primaryKey"`
}
