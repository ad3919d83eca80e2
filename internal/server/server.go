// Package server exposes the contact list to a browser on localhost: an HTML
// view driven by query parameters and the two export downloads.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contacts"
	"github.com/tartampluch/go-contacts/internal/export"
	"github.com/tartampluch/go-contacts/internal/locale"
	"github.com/tartampluch/go-contacts/internal/view"
)

// snapshot is one loaded record set and its HTTP metadata.
type snapshot struct {
	memo         *view.Memo
	lastModified string // RFC1123 format required by HTTP headers
}

// ContactsServer serves the contact list over HTTP.
type ContactsServer struct {
	// snap uses atomic.Pointer for lock-free reads; it is replaced only when
	// a new contacts file is loaded.
	snap atomic.Pointer[snapshot]
	Port string

	pipeline atomic.Pointer[view.Pipeline]
	exporter *export.Exporter
	page     *pageRenderer
}

// NewContactsServer creates a new instance of the server.
func NewContactsServer(port string, p *view.Pipeline, exp *export.Exporter, cat *locale.Catalog) *ContactsServer {
	s := &ContactsServer{
		Port:     port,
		exporter: exp,
		page:     newPageRenderer(cat, exp.FallbackAvatar),
	}
	s.pipeline.Store(p)
	return s
}

// Handler returns the routes of the server.
func (s *ContactsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleList)
	mux.HandleFunc(config.RouteExportXLSX, s.handleExport(config.FormatXLSX))
	mux.HandleFunc(config.RouteExportPDF, s.handleExport(config.FormatPDF))
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *ContactsServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served records.
func (s *ContactsServer) Update(records []contacts.Contact) {
	item := &snapshot{
		memo:         view.NewMemo(s.pipeline.Load(), records),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	s.snap.Store(item)

	slog.Debug(config.MsgContactsSwap,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyCount, len(records),
	)
}

// SetPipeline changes the page size or collation used for later requests.
func (s *ContactsServer) SetPipeline(p *view.Pipeline) {
	s.pipeline.Store(p)
	if item := s.snap.Load(); item != nil {
		item.memo.SetPipeline(p)
	}
}

// ready writes the method and readiness errors and returns the current
// snapshot, or nil when the request has been answered.
func (s *ContactsServer) ready(w http.ResponseWriter, r *http.Request) *snapshot {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return nil
	}

	item := s.snap.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return nil
	}
	return item
}

// handleList renders the HTML view with HTTP caching support.
func (s *ContactsServer) handleList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != config.RouteRoot {
		http.NotFound(w, r)
		return
	}
	item := s.ready(w, r)
	if item == nil {
		return
	}

	st := stateFromQuery(r.URL.Query())
	res := item.memo.Derive(st)
	st.Page = res.Page

	var buf bytes.Buffer
	if err := s.page.render(&buf, st, res); err != nil {
		slog.Error(config.ErrTemplate,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
		return
	}

	hash := sha256.Sum256(buf.Bytes())
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	slog.Debug(config.MsgPageRendered,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyQuery, st.Query,
		config.LogKeyPage, st.Page,
		config.LogKeyETag, etag,
		config.LogKeySizeBytes, buf.Len(),
	)

	w.Header().Set(config.HeaderContentType, config.MimeTextHTML)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, &buf); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// handleExport streams the filtered and sorted records in format. The page
// parameter is ignored: exports always cover every matching record.
func (s *ContactsServer) handleExport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := s.ready(w, r)
		if item == nil {
			return
		}

		st := stateFromQuery(r.URL.Query())
		res := item.memo.Derive(st)

		var buf bytes.Buffer
		if err := s.exporter.Export(r.Context(), &buf, format, res.Filtered); err != nil {
			slog.Error(config.ErrExportFailed,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyFormat, format,
				config.LogKeyError, err,
			)
			http.Error(w, config.HTTPMsgInternalErr, http.StatusInternalServerError)
			return
		}

		w.Header().Set(config.HeaderContentType, export.ContentType(format))
		w.Header().Set(config.HeaderContentDisposition, fmt.Sprintf(config.FormatAttachment, s.exporter.FileName(format)))
		w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, &buf); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err,
				)
			}
		}
	}
}
