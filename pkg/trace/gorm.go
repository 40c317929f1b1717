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
package trace

import (
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	gormTracerName = "github.com/go-arcade/groupfiles/pkg/trace/gorm"
	gormSpanKey    = "otel:span"
)

// GormPlugin opens a client span around every statement.
type GormPlugin struct {
	// DBSystem is reported as db.system, e.g. "mysql".
	DBSystem string
	// WithQuery records the SQL text.
	WithQuery bool
}

func NewGormPlugin(dbSystem string, withQuery bool) *GormPlugin {
	return &GormPlugin{DBSystem: dbSystem, WithQuery: withQuery}
}

func (p *GormPlugin) Name() string {
	return "otel-tracing"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("otel:before_create", p.before),
		cb.Query().Before("gorm:query").Register("otel:before_query", p.before),
		cb.Update().Before("gorm:update").Register("otel:before_update", p.before),
		cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before),
		cb.Row().Before("gorm:row").Register("otel:before_row", p.before),
		cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before),

		cb.Create().After("gorm:create").Register("otel:after_create", p.after),
		cb.Query().After("gorm:query").Register("otel:after_query", p.after),
		cb.Update().After("gorm:update").Register("otel:after_update", p.after),
		cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after),
		cb.Row().After("gorm:row").Register("otel:after_row", p.after),
		cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after),
	)
}

func (p *GormPlugin) before(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	table := db.Statement.Table
	ctx, span := GetTracer(gormTracerName).Start(db.Statement.Context, "gorm."+table,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", p.DBSystem),
			attribute.String("db.sql.table", table),
		),
	)
	db.Statement.Context = ctx
	db.InstanceSet(gormSpanKey, span)
}

func (p *GormPlugin) after(db *gorm.DB) {
	v, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	sql := db.Statement.SQL.String()
	span.SetAttributes(
		attribute.String("db.operation", operationOf(sql)),
		attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
	)
	if p.WithQuery && sql != "" {
		span.SetAttributes(attribute.String("db.statement", sql))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
}

func operationOf(sql string) string {
	verb, _, _ := strings.Cut(strings.TrimSpace(sql), " ")
	switch strings.ToUpper(verb) {
	case "INSERT":
		return "create"
	case "UPDATE":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return "query"
	}
}
