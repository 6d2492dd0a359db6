package web

import "embed"

// StaticFS holds the embedded static assets (CSS, blink animation JS).
//
//go:embed static/*
var StaticFS embed.FS
