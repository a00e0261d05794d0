// Copyright (c) 2024-2026 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// When trying to serialize and write out settings, the latest known
// minor and patch version will be used since older versions (with the
// same major version) can ignore the extra fields too.
package cfg1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/momeni/cpweb/pkg/adapter/config/settings"
	"github.com/momeni/cpweb/pkg/adapter/config/vers"
	"github.com/momeni/cpweb/pkg/adapter/db/mongo"
	"github.com/momeni/cpweb/pkg/adapter/hash/plain"
	"github.com/momeni/cpweb/pkg/adapter/hash/scram"
	ginadapter "github.com/momeni/cpweb/pkg/adapter/restful/gin"
	"github.com/momeni/cpweb/pkg/core/auth"
	"github.com/momeni/cpweb/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// These are the default values of settings which are not given by the
// configuration file nor by the environment variables.
const (
	DefaultURI            = "mongodb://127.0.0.1:27017"
	DefaultDatabase       = "parking"
	DefaultPort           = 3000
	DefaultConnectTimeout = 10 * time.Second
	DefaultProbeInterval  = 30 * time.Second
)

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	Database Database // MongoDB connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Server   Server   // HTTP listener settings
	Users    Users    // users use case settings
	Logging  Logging  // structured logging settings

	// Vers contains the configuration file version string.
	Vers vers.Config `yaml:",inline"`
}

// Database contains the document store connection settings.
type Database struct {
	URI  string // connection string, like mongodb://host:27017
	Name string // database name

	// ConnectTimeout bounds the connection establishment and each
	// readiness probe.
	ConnectTimeout *settings.Duration `yaml:"connect-timeout"`
	// ProbeInterval is the maximum delay between two probes while the
	// document store has not been reached.
	ProbeInterval *settings.Duration `yaml:"probe-interval"`
}

// NewGateway creates the persistence gateway based on the `d` settings.
// An unreachable store does not cause an error (see mongo.NewGateway).
func (d Database) NewGateway(ctx context.Context) (*mongo.Gateway, error) {
	opts := make([]mongo.Option, 0, 2)
	if d.ConnectTimeout != nil {
		opts = append(opts, mongo.WithConnectTimeout(
			d.ConnectTimeout.Std(),
		))
	}
	if d.ProbeInterval != nil {
		opts = append(opts, mongo.WithProbeInterval(
			d.ProbeInterval.Std(),
		))
	}
	return mongo.NewGateway(ctx, d.URI, d.Name, opts...)
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their default values.
type Gin struct {
	Logger   *bool  // Whether to register the request logger middleware
	Recovery *bool  // Whether to register the recovery middleware
	Mode     string `yaml:",omitempty"` // debug, release, or test
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	gin.SetMode(g.Mode)
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, ginadapter.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, ginadapter.Recovery())
	}
	return ginadapter.New(middlewares...)
}

// Server contains the HTTP listener settings.
type Server struct {
	Host string `yaml:",omitempty"` // empty host listens on all interfaces
	Port int
}

// Addr returns the host:port listening address.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Users contains the configuration settings for the users use cases.
type Users struct {
	// PasswordScheme is one of plain, scram-sha-1, or scram-sha-256.
	PasswordScheme string `yaml:"password-scheme"`
	// ScramIterations is used by the scram schemes for new passwords.
	ScramIterations int `yaml:"scram-iterations,omitempty"`
}

// NewVerifier instantiates the credentials verifier which implements
// the configured password scheme.
func (u Users) NewVerifier() (auth.Verifier, error) {
	var m *scram.Mechanism
	switch u.PasswordScheme {
	case "plain":
		return plain.New(), nil
	case "scram-sha-1":
		m = scram.SHA1()
	case "scram-sha-256":
		m = scram.SHA256()
	default:
		return nil, fmt.Errorf(
			"unknown password scheme: %q", u.PasswordScheme,
		)
	}
	if u.ScramIterations == 0 {
		return m, nil
	}
	return m.WithIterations(u.ScramIterations)
}

// Logging contains the structured logging settings.
type Logging struct {
	Level  string // debug, info, warn, or error
	Format string // text or json
}

// NewHandler creates a slog.Handler which writes to w based on the `l`
// settings.
func (l Logging) NewHandler(w io.Writer) (slog.Handler, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl, AddSource: lvl < slog.LevelInfo}
	switch l.Format {
	case "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unknown log format: %q", l.Format)
	}
}

// Install makes a logger, writing to w, the slog default logger.
func (l Logging) Install(w io.Writer) error {
	h, err := l.NewHandler(w)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. An empty data is acceptable and yields the default settings.
// Thereafter, the env environment variables override their settings
// and the Config will be validated and normalized in order to ensure
// that provided settings are acceptable.
//
// The following environment variables are supported:
//
//	PORT              Server.Port
//	MONGODB_URI       Database.URI
//	MONGODB_DATABASE  Database.Name
//	LOG_LEVEL         Logging.Level
func Load(data []byte, env settings.Env) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		c.Vers.Versions.Config = Version
	}
	if err := c.overrideFromEnv(env); err != nil {
		return nil, err
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

func (c *Config) overrideFromEnv(env settings.Env) error {
	return errors.Join(
		settings.OverwriteFromEnv(env, "PORT", &c.Server.Port, strconv.Atoi),
		settings.OverwriteFromEnv(
			env, "MONGODB_URI", &c.Database.URI, settings.String,
		),
		settings.OverwriteFromEnv(
			env, "MONGODB_DATABASE", &c.Database.Name, settings.String,
		),
		settings.OverwriteFromEnv(
			env, "LOG_LEVEL", &c.Logging.Level, settings.String,
		),
	)
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Validate(Version); err != nil {
		return fmt.Errorf("expecting version v%d.%d: %w", Major, Minor, err)
	}
	if c.Database.URI == "" {
		c.Database.URI = DefaultURI
	}
	if c.Database.Name == "" {
		c.Database.Name = DefaultDatabase
	}
	ct := settings.Duration(DefaultConnectTimeout)
	settings.Nil2Default(&c.Database.ConnectTimeout, ct)
	pi := settings.Duration(DefaultProbeInterval)
	settings.Nil2Default(&c.Database.ProbeInterval, pi)
	if *c.Database.ConnectTimeout <= 0 {
		return errors.New("database connect-timeout must be positive")
	}
	if *c.Database.ProbeInterval < 0 {
		return errors.New("database probe-interval must not be negative")
	}
	settings.Nil2Default(&c.Gin.Logger, true)
	settings.Nil2Default(&c.Gin.Recovery, true)
	switch c.Gin.Mode {
	case "":
		c.Gin.Mode = gin.ReleaseMode
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("unknown gin mode: %q", c.Gin.Mode)
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Users.PasswordScheme == "" {
		c.Users.PasswordScheme = "plain"
	}
	if _, err := c.Users.NewVerifier(); err != nil {
		return fmt.Errorf("validating users settings: %w", err)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if _, err := c.Logging.NewHandler(io.Discard); err != nil {
		return fmt.Errorf("validating logging settings: %w", err)
	}
	return nil
}

// Marshalled struct contains a field for each one of the Config struct
// fields. The field names may be different for simplicity, but the
// yaml tag of fields are chosen to have consistent names after the
// serialization operation. The types of those fields are the same if
// their default serialization format is acceptable, otherwise, they
// will be serialized manually using the Marshal method and their
// target primitive types will be used in the Marshalled struct.
type Marshalled struct {
	Database struct {
		URI            string
		Name           string
		ConnectTimeout *string `yaml:"connect-timeout,omitempty"`
		ProbeInterval  *string `yaml:"probe-interval,omitempty"`
	}
	Gin     Gin
	Server  Server
	Users   Users
	Logging Logging
	Vers    *vers.Marshalled `yaml:",inline"`
}

// MarshalYAML returns an instance of the Marshalled struct, as created
// by the Marshal method, so it may be marshalled instead of the `c`
// Config instance.
func (c *Config) MarshalYAML() (interface{}, error) {
	return c.Marshal(), nil
}

// Marshal creates an instance of the Marshalled struct and fills it
// with the `c` Config instance contents. Any field which requires a
// specific marshaling logic is replaced by a primitive data type, so
// it can contain the properly serialized version of that field.
func (c *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Database.URI = c.Database.URI
	m.Database.Name = c.Database.Name
	m.Database.ConnectTimeout = c.Database.ConnectTimeout.Marshal()
	m.Database.ProbeInterval = c.Database.ProbeInterval.Marshal()
	m.Gin = c.Gin
	m.Server = c.Server
	m.Users = c.Users
	m.Logging = c.Logging
	m.Vers = c.Vers.Marshal()
	return m
}
