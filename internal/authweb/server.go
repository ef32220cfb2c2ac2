// Package authweb serves the web UI the user authorizes accounts through.
// It is the redirect target of the OAuth2 flow: Microsoft sends the user
// back here with either (code, state) or (error, error_description) query
// parameters.
package authweb

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/mstodo-bridge/internal/logger"
	"github.com/custodia-labs/mstodo-bridge/internal/metrics"
	"github.com/custodia-labs/mstodo-bridge/internal/msauth"
)

// ConnectPath is the route of the authorization page and redirect target.
const ConnectPath = "/connect"

// Server handles the authorization web endpoint.
type Server struct {
	coordinator *msauth.Coordinator
	baseURL     string
	withMetrics bool
}

// NewServer creates a Server. baseURL is the externally reachable base of
// this service; baseURL+ConnectPath must be registered as the OAuth app's
// redirect URI.
func NewServer(coordinator *msauth.Coordinator, baseURL string, withMetrics bool) *Server {
	return &Server{coordinator: coordinator, baseURL: baseURL, withMetrics: withMetrics}
}

// Router wires the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.withMetrics {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}
	r.Get(ConnectPath, s.handleConnect)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ConnectPath, http.StatusFound)
	})
	return r
}

// RedirectURI returns the exact redirect URI used in authorization links
// and token exchanges.
func (s *Server) RedirectURI() string {
	return s.baseURL + ConnectPath
}

// handleConnect renders the account page and, when Microsoft redirected
// back with callback parameters, completes the authorization.
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	redirectURI := s.RedirectURI()

	data := pageData{
		RedirectURI: redirectURI,
		Refresh:     len(query) > 0,
	}

	reqError := query.Get("error")
	reqState := query.Get("state")
	switch {
	case reqError != "":
		// The provider refused before issuing a code; nothing to exchange.
		logger.Debugf("authorization redirect with error: %s (%s)", reqError, query.Get("error_description"))
		data.Error = reqError
		data.ErrorDescription = query.Get("error_description")
	case reqState != "":
		user, err := s.coordinator.CompleteAuthorization(reqState, query.Get("code"), redirectURI)
		switch {
		case errors.Is(err, msauth.ErrUnknownAccount):
			data.Error = "Returned 'state' doesn't match any account. Has the account been removed?"
		case err != nil:
			logger.Debugf("authorization failed: %v", err)
			data.Error = err.Error()
		default:
			data.AuthorizedUser = user
		}
	}

	for _, account := range s.coordinator.Accounts() {
		view := accountView{
			Authorized:   account.IsAuthorized(),
			Name:         account.Name(),
			Email:        account.Email(),
			AuthorizeURL: account.FormatAuthorizationURL(redirectURI),
		}
		if keyed, ok := account.(interface{ CorrelationKey() string }); ok {
			view.ID = keyed.CorrelationKey()
		}
		data.Accounts = append(data.Accounts, view)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		logger.Errorf("rendering authorization page: %v", err)
	}
}
