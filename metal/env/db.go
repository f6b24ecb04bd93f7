package env

import "fmt"

const PostgresDriver = "postgres"
const SQLiteDriver = "sqlite"

type DBEnvironment struct {
	DriverName   string `validate:"required,oneof=postgres sqlite"`
	UserName     string `validate:"required_if=DriverName postgres"`
	UserPassword string `validate:"required_if=DriverName postgres"`
	DatabaseName string `validate:"required_if=DriverName postgres"`
	Port         int    `validate:"required_if=DriverName postgres,omitempty,min=1,max=65535"`
	Host         string `validate:"required_if=DriverName postgres"`
	SSLMode      string `validate:"omitempty,oneof=disable require verify-ca verify-full"`
	TimeZone     string `validate:"omitempty"`
	SQLitePath   string `validate:"required_if=DriverName sqlite"`
}

func (e DBEnvironment) IsSQLite() bool {
	return e.DriverName == SQLiteDriver
}

func (e DBEnvironment) GetDSN() string {
	if e.IsSQLite() {
		return e.SQLitePath
	}

	sslMode := e.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	timeZone := e.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		e.Host,
		e.UserName,
		e.UserPassword,
		e.DatabaseName,
		e.Port,
		sslMode,
		timeZone,
	)
}
