package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(t *testing.T) map[string]string
	}{
		{name: "No config", cfg: func(*testing.T) map[string]string { return nil }},
		{name: "No channel", cfg: func(*testing.T) map[string]string {
			return map[string]string{"host": "localhost", "port": "6379"}
		}},
		{name: "Unreachable server", cfg: func(t *testing.T) map[string]string {
			return map[string]string{"host": "127.0.0.1", "port": closedPort(t), "channel": "trackers"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, (&Connector{}).Init(tt.cfg(t)))
		})
	}
}

func TestSaveRejectsNilRecord(t *testing.T) {
	assert.Error(t, (&Connector{}).Save(nil))
}
