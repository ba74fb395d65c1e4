package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"lodestone.dev/frontend/internal/entity"
)

const databaseFileName = "launcher.db"

type SQLiteDelegate struct {
	BasePath string
	database *gorm.DB
}

func (sqliteDelegate *SQLiteDelegate) Open() (err error) {
	if err = os.MkdirAll(sqliteDelegate.BasePath, 0755); err != nil {
		return
	}
	dialector := sqlite.Open(filepath.Join(sqliteDelegate.BasePath, databaseFileName))
	if sqliteDelegate.database, err = gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	}); err != nil {
		return
	}
	return
}

func (sqliteDelegate *SQLiteDelegate) Migrate() (err error) {
	return sqliteDelegate.database.AutoMigrate(
		&entity.Variable{}, &entity.Pin{}, &entity.Icon{})
}

func (sqliteDelegate *SQLiteDelegate) Close() (err error) {
	if sqliteDelegate.database == nil {
		return
	}
	var database *sql.DB
	if database, err = sqliteDelegate.database.DB(); err != nil {
		return
	}
	return database.Close()
}

func (sqliteDelegate *SQLiteDelegate) SetVariable(name string, value string) error {
	result := sqliteDelegate.database.Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(&entity.Variable{Name: name, Value: value})
	return result.Error
}

func (sqliteDelegate *SQLiteDelegate) Variable(name string) (value string, ok bool, err error) {
	var variable entity.Variable
	result := sqliteDelegate.database.First(&variable, "name = ?", name)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if result.Error != nil {
		return "", false, result.Error
	}
	return variable.Value, true, nil
}

func (sqliteDelegate *SQLiteDelegate) DeleteVariable(name string) error {
	return sqliteDelegate.database.Delete(&entity.Variable{Name: name}).Error
}

func (sqliteDelegate *SQLiteDelegate) SavePin(instanceID string) error {
	result := sqliteDelegate.database.Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&entity.Pin{InstanceID: instanceID})
	return result.Error
}

func (sqliteDelegate *SQLiteDelegate) DeletePin(instanceID string) error {
	return sqliteDelegate.database.Delete(&entity.Pin{InstanceID: instanceID}).Error
}

func (sqliteDelegate *SQLiteDelegate) Pins() (pins []string, err error) {
	var entries []entity.Pin
	if result := sqliteDelegate.database.Order("instance_id").Find(&entries); result.Error != nil {
		return nil, result.Error
	}
	for _, entry := range entries {
		pins = append(pins, entry.InstanceID)
	}
	return
}

func (sqliteDelegate *SQLiteDelegate) SaveIcon(icon entity.Icon) error {
	result := sqliteDelegate.database.Clauses(clause.OnConflict{
		UpdateAll: true,
	}).Create(&icon)
	return result.Error
}

func (sqliteDelegate *SQLiteDelegate) DeleteIcon(ownerID string, profile bool) error {
	return sqliteDelegate.database.
		Where("owner_id = ? AND profile = ?", ownerID, profile).
		Delete(&entity.Icon{}).Error
}

func (sqliteDelegate *SQLiteDelegate) Icon(ownerID string, profile bool) (icon entity.Icon, ok bool, err error) {
	result := sqliteDelegate.database.First(&icon, "owner_id = ? AND profile = ?", ownerID, profile)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return entity.Icon{}, false, nil
	}
	if result.Error != nil {
		return entity.Icon{}, false, result.Error
	}
	return icon, true, nil
}
