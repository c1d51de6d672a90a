/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

// gameLogger adapts logf for the game and roster packages.
func gameLogger(cfg *Config) func(format string, args ...any) {
	return func(format string, args ...any) {
		logf(cfg, format, args...)
	}
}

func newPage(cfg *Config, title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon(cfg))
	htmlBody.WriteString(fmt.Sprintf(`<link rel="stylesheet" href="%s/assets/creatures/app.css">`, cfg.prefix))
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", html.EscapeString(title)))
	htmlBody.WriteString(fmt.Sprintf("<body class=\"page\"><a href=\"%s/\">%s</a></body></html>", cfg.prefix, html.EscapeString(body)))

	return htmlBody.String()
}

func serveErrorPage(cfg *Config, w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	_, _ = io.WriteString(w, newPage(cfg, title, body))
}
