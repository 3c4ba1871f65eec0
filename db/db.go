package db

import (
	"repertoire/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init opens the configured database: MySQL, then Postgres, falling back to a SQLite file
func Init() {
	var dialector gorm.Dialector
	switch {
	case config.MYSQL_DSN != "":
		dialector = mysql.Open(config.MYSQL_DSN)
	case config.POSTGRES_DSN != "":
		dialector = postgres.Open(config.POSTGRES_DSN)
	default:
		dialector = sqlite.Open(SQLiteDSN(config.SQLITE_FILE))
	}
	db, err := Open(dialector)
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}

func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}
	if !config.DEBUG_MODE {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}
	return gorm.Open(dialector, gormConfig)
}

// SQLiteDSN enables foreign keys so cascaded deletes are honoured
func SQLiteDSN(file string) string {
	return file + "?_foreign_keys=on"
}

// IsSQLite reports whether the database is a local SQLite file (the only kind included in backups)
func IsSQLite() bool {
	return Instance != nil && Instance.Dialector.Name() == "sqlite"
}
