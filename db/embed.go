// Package db provides embedded database schema and seed files.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// Seed contains idempotent demo data for local development and tests.
//
//go:embed seed/002_demo.sql
var Seed string
