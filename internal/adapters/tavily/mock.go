package tavily

import (
	"fmt"
	"strings"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/domain/news"
)

// MockSector picks the sector label used by the offline payload
func MockSector(query string) string {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "rubber") || strings.Contains(q, "glove"):
		return "Rubber gloves"
	case strings.Contains(q, "manufacturing"):
		return "Manufacturing"
	case strings.Contains(q, "energy") || strings.Contains(q, "cost"):
		return "Energy"
	case strings.Contains(q, "food") || strings.Contains(q, "beverage"):
		return "Food & Beverage"
	default:
		return "General"
	}
}

// MockResponse builds the offline search payload served when the API
// cannot be reached. All results are dated today.
func MockResponse(query string, now time.Time) *news.SearchResponse {
	sector := MockSector(query)
	today := now.Format(time.DateOnly)

	results := []news.RawResult{
		{
			Title:         fmt.Sprintf("Latest Trends in %s Industry", sector),
			Content:       fmt.Sprintf("The %s industry has been experiencing significant changes due to global market shifts. Companies are adapting to new challenges and opportunities.", sector),
			URL:           "https://example.com/industry-trends",
			Source:        "Industry Insights",
			PublishedDate: today,
		},
		{
			Title:         fmt.Sprintf("Supply Chain Updates for %s", sector),
			Content:       fmt.Sprintf("Supply chain disruptions continue to affect the %s sector, with varying impacts across different regions. Companies are implementing new strategies to mitigate these challenges.", sector),
			URL:           "https://example.com/supply-chain",
			Source:        "Supply Chain Monitor",
			PublishedDate: today,
		},
		{
			Title:         fmt.Sprintf("Market Analysis: %s in Southeast Asia", sector),
			Content:       fmt.Sprintf("Southeast Asian markets show promising growth potential for %s companies, despite regional economic pressures. Malaysia and Thailand lead in adoption of new technologies.", sector),
			URL:           "https://example.com/market-analysis",
			Source:        "Market Research Institute",
			PublishedDate: today,
		},
	}

	q := strings.ToLower(query)
	if strings.Contains(q, "tariff") || strings.Contains(q, "trump") {
		tariff := news.RawResult{
			Title:         fmt.Sprintf("Impact of Tariffs on %s Exports", sector),
			Content:       fmt.Sprintf("Recent tariff changes have created both challenges and opportunities for %s exporters. Companies are diversifying markets and optimizing production to maintain competitiveness.", sector),
			URL:           "https://example.com/tariff-impact",
			Source:        "Trade Policy Review",
			PublishedDate: today,
		}
		results = append([]news.RawResult{tariff}, results...)
	}

	return &news.SearchResponse{
		Query:   query,
		Answer:  fmt.Sprintf("Based on recent information, the %s sector is adapting to changing market conditions with varying degrees of success. Companies that have invested in technology and supply chain resilience are showing better performance.", sector),
		Results: results,
		Origin:  news.OriginMock,
	}
}
