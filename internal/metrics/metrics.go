package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Redirects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redirect_requests_total",
		Help: "Total successful redirects.",
	})
	RedirectMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redirect_not_found_total",
		Help: "Redirect requests for unknown codes.",
	})
	Creates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "link_creates_total",
		Help: "Links created.",
	})
	Deletes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "link_deletes_total",
		Help: "Links deleted.",
	})
)

func init() {
	prometheus.MustRegister(Redirects, RedirectMisses, Creates, Deletes)
}

func Handler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
