package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

const defaultLimit = 10

var resultFields = []string{"student_id", "recommendation", "cluster", "accuracy", "avg_response_time"}

// Search matches text against recommendations and student IDs. An empty
// text matches every student. A non-nil cluster restricts hits to it.
func (i *Indexer) Search(text string, cluster *int, limit int) ([]SearchResult, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = defaultLimit
	}

	q := buildQuery(strings.TrimSpace(text))
	if cluster != nil {
		c := float64(*cluster)
		inclusive := true
		clusterQuery := bleve.NewNumericRangeInclusiveQuery(&c, &c, &inclusive, &inclusive)
		clusterQuery.SetField("cluster")
		q = bleve.NewConjunctionQuery(q, clusterQuery)
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = resultFields
	req.SortBy([]string{"-_score", "student_id"})

	results, err := i.bleveIndex.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}
	return convertBleveResults(results), nil
}

func buildQuery(text string) query.Query {
	if text == "" {
		return bleve.NewMatchAllQuery()
	}

	recommendation := bleve.NewMatchQuery(text)
	recommendation.SetField("recommendation")

	studentID := bleve.NewTermQuery(text)
	studentID.SetField("student_id")

	return bleve.NewDisjunctionQuery(recommendation, studentID)
}

// convertBleveResults converts Bleve search results to our SearchResult format.
func convertBleveResults(results *bleve.SearchResult) []SearchResult {
	out := make([]SearchResult, 0, len(results.Hits))

	for _, hit := range results.Hits {
		studentID, _ := hit.Fields["student_id"].(string)
		recommendation, _ := hit.Fields["recommendation"].(string)
		cluster, _ := hit.Fields["cluster"].(float64)
		accuracy, _ := hit.Fields["accuracy"].(float64)
		responseTime, _ := hit.Fields["avg_response_time"].(float64)

		out = append(out, SearchResult{
			StudentID:       studentID,
			Recommendation:  recommendation,
			Cluster:         int(cluster),
			Accuracy:        accuracy,
			AvgResponseTime: responseTime,
			Score:           hit.Score,
		})
	}
	return out
}
