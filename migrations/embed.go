// Package migrations embeds the reference schema for the limerclaw_* tables.
// The conformance tests apply it to a scratch database; deployments own their
// own migrations and are checked against the row shapes, not this file.
package migrations

import "embed"

// FS is the embedded migrations filesystem.
//
//go:embed *.sql
var FS embed.FS
