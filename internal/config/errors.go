package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyJWTSecret error if config jwt.secret is empty.
	ErrEmptyJWTSecret = errors.New("toml config jwt.secret can not be empty")

	// ErrUnknownGormEngine error if config db.gormEngine names an unsupported driver.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine is not supported")
)
