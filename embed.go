package pollboard

import "embed"

// EmbeddedAssets contains the dashboard's static assets:
// dashboard.js, dashboard.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
