package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the relational schema for every GORM
// model of the service. Opt-in via configuration; production schemas
// are usually managed externally.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Members{},
		&Aircrafts{},
		&MaintenanceDeadlines{},
		&Reservations{},
		&Alerts{},
		&AlertConfigs{},
	)
}
