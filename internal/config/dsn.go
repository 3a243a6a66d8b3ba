package config

import (
	"fmt"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

const (
	defaultDBHost    = "127.0.0.1"
	defaultDBPort    = 3306
	defaultDBUser    = "root"
	defaultDBName    = "blogflow"
	defaultDBCharset = "utf8mb4"
	defaultDBLoc     = "Local"
)

// DSNValue assembles the MySQL DSN from the structured fields unless an
// explicit DSN was configured.
func (c DatabaseConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := c.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := strings.TrimSpace(c.User)
	if user == "" {
		user = defaultDBUser
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = defaultDBName
	}
	charset := strings.TrimSpace(c.Charset)
	if charset == "" {
		charset = defaultDBCharset
	}
	loc := strings.TrimSpace(c.Loc)
	if loc == "" {
		loc = defaultDBLoc
	}

	params := map[string]string{"charset": charset, "loc": loc}
	for key, value := range c.Params {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			params[k] = v
		}
	}

	dsnCfg := mysqlDriver.Config{
		User:                 user,
		Passwd:               strings.TrimSpace(c.Password),
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", host, port),
		DBName:               name,
		Params:               params,
		ParseTime:            true,
		AllowNativePasswords: true,
	}
	return dsnCfg.FormatDSN()
}
