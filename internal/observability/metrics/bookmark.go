package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookmarksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmarks_created_total",
			Help: "Total number of bookmarks created",
		},
	)

	BookmarksUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmarks_updated_total",
			Help: "Total number of bookmarks updated",
		},
	)

	BookmarksDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookmarks_deleted_total",
			Help: "Total number of bookmarks deleted",
		},
	)

	BookmarkQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmark_queries_total",
			Help: "Total number of bookmark list queries",
		},
		[]string{"filtered"},
	)

	TagCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tag_cache_hits_total",
			Help: "Total number of tag vocabulary cache hits",
		},
	)

	TagCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tag_cache_misses_total",
			Help: "Total number of tag vocabulary cache misses",
		},
	)
)
