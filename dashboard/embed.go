// Package dashboard provides the embedded web UI assets for SitePulse.
//
// This package uses Go's embed directive to include the dashboard HTML, CSS,
// and JavaScript at compile time. This enables single-binary deployment
// without external asset files.
//
// The page loads the current state from /api/status, then follows the
// statusUpdate, systemHealthUpdate and websiteHealthUpdate events on
// /api/sse. Edits go through the /websites API.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Main dashboard page with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
