/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const qrSize = 320

// baseURL is where clients should connect, either as configured or as seen
// by the request.
func baseURL(cfg *Config, r *http.Request) string {
	if cfg.publicURL != "" {
		return strings.TrimSuffix(cfg.publicURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + r.Host + cfg.prefix
}

func serveHealthCheck(cfg *Config, log *zap.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		if _, err := w.Write([]byte("Ok\n")); err != nil {
			log.Debug("write failed", zap.String("path", r.URL.Path), zap.Error(err))
		}
	}
}

// serveConfigScript hands the browser client the address of this server.
func serveConfigScript(cfg *Config, log *zap.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		settings, err := json.Marshal(map[string]string{"SERVER_URL": baseURL(cfg, r)})
		if err != nil {
			http.Error(w, "config unavailable", http.StatusInternalServerError)
			return
		}
		data := "window.SERVER_CONFIG = " + string(settings) + ";\n"

		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		written, err := w.Write([]byte(data))
		if err != nil {
			log.Debug("write failed", zap.String("path", r.URL.Path), zap.Error(err))
			return
		}

		served(log, "config script", written, r, startTime)
	}
}

// serveQR renders the lobby address as a PNG so phones can join by camera.
func serveQR(cfg *Config, log *zap.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		png, err := qrcode.Encode(baseURL(cfg, r)+"/", qrcode.Medium, qrSize)
		if err != nil {
			log.Warn("qr generation failed", zap.Error(err))
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		securityHeaders(cfg, w)

		written, err := w.Write(png)
		if err != nil {
			log.Debug("write failed", zap.String("path", r.URL.Path), zap.Error(err))
			return
		}

		served(log, "qr code", written, r, startTime)
	}
}

func serveRobots(cfg *Config, log *zap.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: Amazonbot
Disallow: /

User-agent: Applebot-Extended
Disallow: /

User-agent: Bytespider
Disallow: /

User-agent: CCBot
Disallow: /

User-agent: ClaudeBot
Disallow: /

User-agent: Google-Extended
Disallow: /

User-agent: GPTBot
Disallow: /

User-agent: meta-externalagent
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		if _, err := w.Write([]byte(data)); err != nil {
			log.Debug("write failed", zap.String("path", r.URL.Path), zap.Error(err))
		}
	}
}

// serveStatic serves the browser client for every path no route claimed.
func serveStatic(cfg *Config) http.Handler {
	files := http.FileServer(http.Dir(cfg.static))
	if cfg.prefix != "" {
		files = http.StripPrefix(cfg.prefix, files)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		files.ServeHTTP(w, r)
	})
}
