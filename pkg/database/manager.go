// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/groupfiles/pkg/log"
	"github.com/go-arcade/groupfiles/pkg/retry"
	"github.com/go-arcade/groupfiles/pkg/trace"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Manager owns the database connection of the service.
type Manager interface {
	// DB returns the primary connection.
	DB() *gorm.DB

	// Type returns the configured backend.
	Type() string

	Close() error
}

type managerImpl struct {
	db  *gorm.DB
	typ string
}

func (m *managerImpl) DB() *gorm.DB {
	return m.db
}

func (m *managerImpl) Type() string {
	return m.typ
}

func (m *managerImpl) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", m.typ, err)
	}
	return nil
}

// NewManager opens the configured backend.
func NewManager(cfg Database) (Manager, error) {
	cfg.SetDefaults()

	var db *gorm.DB
	connect := func(context.Context) error {
		var err error
		switch cfg.Type {
		case TypeMySQL:
			db, err = newMySQLConnection(cfg.MySQL, cfg)
		case TypeSQLite:
			db, err = newSQLiteConnection(cfg.SQLite, cfg)
		}
		return err
	}
	if cfg.Type != TypeMySQL && cfg.Type != TypeSQLite {
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	err := retry.Do(context.Background(), connect,
		retry.WithMaxAttempts(cfg.ConnectRetries+1),
		retry.OnRetry(func(attempt int, err error, wait time.Duration) {
			log.Warnw("database not reachable, retrying", "type", cfg.Type, "attempt", attempt, "wait", wait, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", cfg.Type, err)
	}
	if err := db.Use(trace.NewGormPlugin(cfg.Type, cfg.OutPut)); err != nil {
		return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
	}

	log.Infow("database connected successfully", "type", cfg.Type)
	return &managerImpl{db: db, typ: cfg.Type}, nil
}

func gormConfig(cfg Database) *gorm.Config {
	var l gormlogger.Interface
	if cfg.OutPut {
		l = NewGormLoggerAdapter(gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Info,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}, gormlogger.Info)
	} else {
		l = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	return &gorm.Config{
		Logger: l,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dataTablePrefix,
			SingularTable: true,
		},
	}
}
