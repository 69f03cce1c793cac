package repository

import "gorm.io/gorm"

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&leadModel{},
		&metricModel{},
		&questionModel{},
		&settingsModel{},
		&leadActivityModel{},
		&activityLogModel{},
		&followupModel{},
		&closureQuestionModel{},
	)
}
