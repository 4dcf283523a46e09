// Package kv implements the persistent key-value store backing the alarm
// engine. Two backends satisfy the same Store contract: a JSON file that is
// read and rewritten wholesale on every change, and a single-table SQLite
// database for installations that want transactional durability.
package kv
