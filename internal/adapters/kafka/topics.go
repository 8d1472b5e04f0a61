package kafka

// Topic definitions for Kafka event streaming
const (
	// Analyst events
	TopicAnalystMessages = "analyst.messages"
	TopicAnalystInsights = "analyst.insights"

	// News ingestion events
	TopicNewsCollected = "news.collected"
)

// AllTopics lists every topic the service produces to
func AllTopics() []string {
	return []string{
		TopicAnalystMessages,
		TopicAnalystInsights,
		TopicNewsCollected,
	}
}
