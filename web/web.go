// Package web holds the dashboard front end compiled into the binary.
package web

import "embed"

//go:embed index.html
var Assets embed.FS
