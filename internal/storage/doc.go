// Package storage persists performance records in a SQL database.
//
// Records live in a single performances table mapped with gorp, unique on
// (player_name, tourney_name). SQLite is the default backend and keeps its
// database file under ~/.pga-stats/; PostgreSQL is reached through pgx.
// Inserting a record that already exists is not an error: the duplicate is
// skipped so repeated pulls stay idempotent.
package storage
