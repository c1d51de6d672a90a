/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/whosthat/games/guess"
	"github.com/Seednode/whosthat/games/roster"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

func serveVersion(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("whosthat v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Version page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// newProvider builds the roster provider and, when --cache is set, the
// sqlite cache behind it. The returned func releases the cache.
func newProvider(cfg *Config) (*roster.Provider, func(), error) {
	opts := []roster.Option{roster.WithLogger(gameLogger(cfg))}

	if cfg.roster != "" {
		opts = append(opts, roster.WithFile(cfg.roster))
	}

	release := func() {}

	if cfg.cache != "" {
		cache, err := roster.OpenCache(cfg.cache)
		if err != nil {
			return nil, nil, err
		}

		opts = append(opts, roster.WithCache(cache))
		release = func() { _ = cache.Close() }
	}

	return roster.New(opts...), release, nil
}

// newRouter registers every route. The returned func stops the game manager.
func newRouter(ctx context.Context, cfg *Config, provider guess.Provider, errs chan<- error) (*httprouter.Router, func()) {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		logf(cfg, "SERVE: Recovered from panic serving %s: %v", r.URL.Path, i)

		serveErrorPage(cfg, w, http.StatusInternalServerError, "Server Error", "An error has occurred. Please try again.")
	}

	mux.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveErrorPage(cfg, w, http.StatusNotFound, "Not Found", "Nothing lives here. Back to the start?")
	})

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	mux.GET(cfg.prefix+"/", serveHomePage(cfg, errs))

	mux.GET(cfg.prefix+"/assets/*asset", serveAssets(cfg, errs))

	mux.GET(cfg.prefix+"/favicons/*favicon", serveFavicons(cfg, errs))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, errs))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	gm := registerCreatureGame(ctx, cfg, "/creatures", provider, mux, errs)

	return mux, gm.stop
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logf(cfg, "START: whosthat v%s", releaseVersion)

	provider, release, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer release()

	if cfg.roster != "" {
		err = roster.Watch(ctx, cfg.roster, func() {
			provider.Reset()
			logf(cfg, "ROSTER: %s changed, reloading on next game", cfg.roster)
		})
		if err != nil {
			return err
		}
	}

	errs := make(chan error, 64)

	mux, stop := newRouter(ctx, cfg, provider, errs)
	defer stop()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-errs:
				logf(cfg, "SERVE: Write failed: %v", err)
			}
		}
	}()

	go func() {
		var err error
		logf(cfg, "SERVE: Listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)
		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("%s | ERROR: %v\n", time.Now().Format(logDate), err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	return nil
}
