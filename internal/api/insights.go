package api

import (
	"math"
	"net/http"

	"github.com/montanaflynn/stats"

	"github.com/pathlens/pathlens/pkg/concept"
)

// graphStatsResponse summarizes the loaded graph. Unlike result stats,
// which cover one query's page, these counts span every node.
type graphStatsResponse struct {
	Nodes       int            `json:"nodes"`
	Edges       int            `json:"edges"`
	ByStatus    map[string]int `json:"byStatus"`
	ByCategory  map[string]int `json:"byCategory"`
	TotalHours  float64        `json:"totalHours"`
	CycleEdges  [][2]string    `json:"cycleEdges,omitempty"`
	Fingerprint string         `json:"fingerprint"`
}

// handleGraphStats reports whole-graph counts and the dataset fingerprint.
// Cycle edges are included so dashboards can surface broken prerequisite
// structure; a healthy dataset has none.
func (s *Server) handleGraphStats(w http.ResponseWriter, _ *http.Request) {
	resp := graphStatsResponse{
		Nodes:       s.snap.NodeCount(),
		Edges:       s.snap.EdgeCount(),
		ByStatus:    map[string]int{},
		ByCategory:  map[string]int{},
		CycleEdges:  concept.CycleEdges(s.snap),
		Fingerprint: s.fingerprint,
	}
	for _, n := range s.snap.Nodes() {
		resp.ByStatus[string(n.Status)]++
		if n.Category != "" {
			resp.ByCategory[n.Category]++
		}
		resp.TotalHours += n.EstimatedHours
	}
	writeJSON(w, http.StatusOK, resp)
}

// hourSummary aggregates estimated hours over a set of nodes.
type hourSummary struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stdDev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
}

// insightsResponse breaks hour aggregates down by category.
type insightsResponse struct {
	Overall    hourSummary            `json:"overall"`
	ByCategory map[string]hourSummary `json:"byCategory"`
}

// handleInsights aggregates estimated hours across the graph. A category
// parameter narrows the population; remaining=true drops completed nodes,
// answering "how much work is left".
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	remaining := r.URL.Query().Get("remaining") == "true"

	var all []float64
	byCat := map[string][]float64{}
	for _, n := range s.snap.Nodes() {
		if category != "" && n.Category != category {
			continue
		}
		if remaining && n.Status == concept.StatusCompleted {
			continue
		}
		all = append(all, n.EstimatedHours)
		if n.Category != "" {
			byCat[n.Category] = append(byCat[n.Category], n.EstimatedHours)
		}
	}

	resp := insightsResponse{
		Overall:    summarizeHours(all),
		ByCategory: make(map[string]hourSummary, len(byCat)),
	}
	for cat, hours := range byCat {
		resp.ByCategory[cat] = summarizeHours(hours)
	}
	writeJSON(w, http.StatusOK, resp)
}

// summarizeHours computes the aggregate block for one population.
func summarizeHours(hours []float64) hourSummary {
	sum := hourSummary{Count: len(hours)}
	if len(hours) == 0 {
		return sum
	}
	sum.Sum = scrub(stats.Sum(hours))
	sum.Mean = scrub(stats.Mean(hours))
	sum.Median = scrub(stats.Median(hours))
	sum.Min = scrub(stats.Min(hours))
	sum.Max = scrub(stats.Max(hours))
	sum.StdDev = scrub(stats.StandardDeviation(hours))
	sum.P25 = scrub(stats.Percentile(hours, 25))
	sum.P75 = scrub(stats.Percentile(hours, 75))
	sum.P90 = scrub(stats.Percentile(hours, 90))
	return sum
}

// scrub zeroes the NaN values the stats helpers return alongside their
// errors (tiny populations cannot support every percentile). NaN would
// otherwise make the whole response unencodable as JSON.
func scrub(v float64, err error) float64 {
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
