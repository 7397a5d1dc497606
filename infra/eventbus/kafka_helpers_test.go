package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9093"}, parseBrokers(" a:9092, ,b:9093 "))
	assert.Empty(t, parseBrokers(""))
}

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "ledger.events.Transfer.Completed", topicNameFor("ledger.events", "Transfer.Completed"))
	assert.Equal(t, "ledger.events.Transfer.Completed.dlq", dlqTopicNameFor("ledger.events", "Transfer.Completed"))
}
