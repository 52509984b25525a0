package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeNoCookie       = "no_cookie"
	outcomeInvalidToken   = "invalid_token"
	outcomeUnknownSubject = "unknown_subject"
	outcomeStoreError     = "store_error"
	outcomeAuthenticated  = "authenticated"
)

// authOutcomes counts per-request authentication outcomes.
var authOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "callboard_session_auth_total",
	Help: "Session authentication outcomes per request",
}, []string{"outcome"})
