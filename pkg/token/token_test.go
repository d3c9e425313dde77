package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholder_TokenIsDeterministicPerCluster(t *testing.T) {
	var p Placeholder

	first, err := p.Token(context.Background(), "ns", "demo")
	assert.NoError(t, err)
	assert.Equal(t, "join-token-for-demo", first)

	second, err := p.Token(context.Background(), "other-ns", "demo")
	assert.NoError(t, err)
	assert.Equal(t, first, second, "namespace must not affect the placeholder token")
}

func TestPlaceholder_DiffersByClusterName(t *testing.T) {
	var p Placeholder

	a, _ := p.Token(context.Background(), "ns", "cluster-a")
	b, _ := p.Token(context.Background(), "ns", "cluster-b")
	assert.NotEqual(t, a, b)
}
