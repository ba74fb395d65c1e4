package entity

// Variable is a persisted launcher setting keyed by name.
type Variable struct {
	Name  string `gorm:"primaryKey"`
	Value string
}
