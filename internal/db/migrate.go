package db

import (
	"lottery_service/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// mysqlTableOptions gives every table a binary collation. MySQL's default
// collations ignore case, which would make users.email case-insensitive.
// All tables share it so foreign keys join columns of the same collation.
const mysqlTableOptions = "CHARSET=utf8mb4 COLLATE=utf8mb4_bin"

// Migrate performs automatic migration for the database schema.
// Unique indexes on users.email and lotteries.closure_date are created here and
// are the final arbiter for concurrent registrations and lottery creation.
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return withTableOptions(db).AutoMigrate(&domain.User{}, &domain.Lottery{}, &domain.Ballot{})
}

// withTableOptions applies dialect specific CREATE TABLE options.
// Options only take effect when a table is created.
func withTableOptions(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "mysql" {
		return db.Set("gorm:table_options", mysqlTableOptions)
	}
	return db
}
