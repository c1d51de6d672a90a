/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"embed"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
)

//go:embed favicons/*
var favicons embed.FS

func getFavicon(cfg *Config) string {
	return fmt.Sprintf(`<link rel="icon" type="image/svg+xml" href="%[1]s/favicons/favicon.svg">
	<link rel="manifest" href="%[1]s/favicons/site.webmanifest" crossorigin="use-credentials">
	<meta name="theme-color" content="#e3350d">`, cfg.prefix)
}

func serveFavicons(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		fname := path.Join("favicons", path.Clean("/"+p.ByName("favicon")))

		data, err := favicons.ReadFile(fname)
		if err != nil {
			http.NotFound(w, r)

			return
		}

		contentType := mime.TypeByExtension(path.Ext(fname))
		if path.Ext(fname) == ".webmanifest" {
			contentType = "application/manifest+json"
		}
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}

		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Header().Set("Expires", time.Now().Add(24*time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}
