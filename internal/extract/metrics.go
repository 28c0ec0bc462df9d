package extract

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LayoutHits counts which layout handled each extraction; a rising
// "generic" share means a bookmaker changed its slip format and its
// dedicated layout stopped matching.
var LayoutHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "apostas_extract_layout_hits_total",
		Help: "Extractions handled per layout",
	},
	[]string{"layout"},
)
