package db

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: early builds stored the session under "token" in clear
	// text. The session store only reads sealed values, so drop the old key.
	`DELETE FROM settings WHERE key = 'token'`,
}
