// Package sql embeds the schema migrations and the queries the loader runs.
// Queries containing %s take a sanitized, schema-qualified table name.
package sql

import (
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_source_file.sql
var RegisterSourceFile string

//go:embed queries/lookup_source_file.sql
var LookupSourceFile string

//go:embed queries/update_source_status.sql
var UpdateSourceStatus string

//go:embed queries/finish_source_file.sql
var FinishSourceFile string

//go:embed queries/delete_source_rows.sql
var DeleteSourceRows string

//go:embed queries/upsert_payers.sql
var UpsertPayers string

//go:embed queries/upsert_plans.sql
var UpsertPlans string
