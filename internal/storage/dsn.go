package storage

import "fmt"

// ConnParams are discrete connection settings used when no DSN is given.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// BuildDSN assembles a driver-specific DSN from p.
func BuildDSN(driver string, p ConnParams) (string, error) {
	switch Dialect(driver) {
	case DialectPostgres:
		return buildPostgresDSN(p), nil
	case DialectMySQL:
		return buildMySQLDSN(p), nil
	case DialectSQLite:
		if p.Database == "" {
			return "", fmt.Errorf("sqlite needs a database path")
		}
		return p.Database, nil
	default:
		return "", fmt.Errorf("unsupported storage driver %q", driver)
	}
}

func buildPostgresDSN(p ConnParams) string {
	port := p.Port
	if port == 0 {
		port = 5432
	}
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, port, p.User, p.Password, p.Database, sslMode,
	)
}

func buildMySQLDSN(p ConnParams) string {
	port := p.Port
	if port == 0 {
		port = 3306
	}
	// parseTime makes DATETIME columns scan into time.Time
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		p.User, p.Password, p.Host, port, p.Database,
	)
	if p.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}
