// internal/config/database.go
package config

import "fmt"

// DSN assembles the postgres connection string. The timezone is pinned
// to the pharmacy's so prescription and order timestamps read the same
// everywhere.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=Asia/Ho_Chi_Minh",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
