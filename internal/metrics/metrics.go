package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tictactoe_search_duration_seconds",
			Help:    "Time spent choosing a computer move",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"difficulty", "size"},
	)
	SearchNodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_search_nodes_total",
			Help: "Positions scored by the minimax search",
		},
		[]string{"size"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tictactoe_games_finished_total",
			Help: "Finished games by outcome and winner",
		},
		[]string{"outcome", "winner"},
	)
)

func init() {
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchNodes)
	prometheus.MustRegister(GamesFinished)
}
