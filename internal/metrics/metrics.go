package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsfeed_cache_hits_total",
		Help: "Cache hits by surface (feed, trending, post).",
	}, []string{"surface"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsfeed_cache_misses_total",
		Help: "Cache misses by surface, including degraded reads on cache errors.",
	}, []string{"surface"})

	Invalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsfeed_post_cache_invalidations_total",
		Help: "Single-post cache keys invalidated after store writes.",
	})
)
