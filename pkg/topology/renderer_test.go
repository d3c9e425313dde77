package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_IsDeterministic(t *testing.T) {
	cp := []Node{{Name: "cp-1", IP: "10.0.0.1"}, {Name: "cp-2", IP: "10.0.0.2"}}
	workers := []Node{{Name: "w-1", IP: "10.0.1.1"}}

	first := Render("demo", cp, workers)
	second := Render("demo", cp, workers)
	assert.Equal(t, first, second)
}

func TestRender_EmptyWorkersProducesEmptyList(t *testing.T) {
	out := Render("demo", []Node{{Name: "cp-1", IP: "10.0.0.1"}}, nil)
	assert.Contains(t, out, `name = "cp-1"`)
	assert.Contains(t, out, "workers = [ ];")
}

func TestRender_PreservesInputOrder(t *testing.T) {
	cp := []Node{{Name: "z", IP: "1.1.1.1"}, {Name: "a", IP: "2.2.2.2"}}
	out := Render("demo", cp, nil)

	zIdx := indexOf(out, `name = "z"`)
	aIdx := indexOf(out, `name = "a"`)
	if zIdx == -1 || aIdx == -1 || zIdx > aIdx {
		t.Fatalf("expected z before a in rendered output, got:\n%s", out)
	}
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
