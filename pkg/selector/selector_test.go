package selector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
)

type fakeLister struct {
	machines []nicov1alpha1.Machine
	err      error
}

func (f *fakeLister) ListMachines(_ context.Context, _ string) ([]nicov1alpha1.Machine, error) {
	return f.machines, f.err
}

func machine(name string, labels map[string]string, hasConfig bool) nicov1alpha1.Machine {
	m := nicov1alpha1.Machine{}
	m.Name = name
	m.Labels = labels
	m.Status.HasConfiguration = hasConfig
	return m
}

// P1: explicit list always wins, verbatim and in order.
func TestSelect_ExplicitListWinsOverEverything(t *testing.T) {
	lister := &fakeLister{machines: []nicov1alpha1.Machine{
		machine("z", nil, false), machine("a", nil, false),
	}}
	roleSpec := nicov1alpha1.RoleSpec{
		Machines:        []string{"b", "a"},
		MachineSelector: nicov1alpha1.RoleSelector{Count: 5},
	}
	got, err := Select(context.Background(), lister, "ns", "c1", "control-plane", roleSpec, []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, got)
}

// P2/S1: persisted selection is reused verbatim when no explicit list is set,
// even if the pool has since changed — this is the stability invariant.
func TestSelect_PersistedSelectionIsStableAcrossPoolChurn(t *testing.T) {
	lister := &fakeLister{machines: []nicov1alpha1.Machine{
		machine("new-1", map[string]string{"pool": "x"}, false),
	}}
	roleSpec := nicov1alpha1.RoleSpec{
		MachineSelector: nicov1alpha1.RoleSelector{MatchLabels: map[string]string{"pool": "x"}, Count: 1},
	}
	got, err := Select(context.Background(), lister, "ns", "c1", "control-plane", roleSpec, []string{"old-1", "old-2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"old-1", "old-2"}, got)
}

// P3: fresh selection keeps only label-superset, available machines, sorted
// lexicographically, truncated to count.
func TestSelect_FreshSelectionFiltersSortsAndTruncates(t *testing.T) {
	lister := &fakeLister{machines: []nicov1alpha1.Machine{
		machine("z-node", map[string]string{"pool": "x"}, false),
		machine("a-node", map[string]string{"pool": "x"}, false),
		machine("m-node", map[string]string{"pool": "x"}, true),  // unavailable
		machine("b-node", map[string]string{"pool": "y"}, false), // wrong labels
	}}
	roleSpec := nicov1alpha1.RoleSpec{
		MachineSelector: nicov1alpha1.RoleSelector{MatchLabels: map[string]string{"pool": "x"}, Count: 1},
	}
	got, err := Select(context.Background(), lister, "ns", "c1", "worker", roleSpec, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-node"}, got)
}

// P4: count == 0 always selects none, without listing if both higher-precedence
// clauses are empty.
func TestSelect_ZeroCountSelectsNothing(t *testing.T) {
	lister := &fakeLister{machines: []nicov1alpha1.Machine{machine("a", nil, false)}}
	roleSpec := nicov1alpha1.RoleSpec{MachineSelector: nicov1alpha1.RoleSelector{Count: 0}}
	got, err := Select(context.Background(), lister, "ns", "c1", "worker", roleSpec, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// S2: fresh selection is a pure function of (matchLabels, count, pool) — two
// calls against the same pool return identical results.
func TestSelect_FreshSelectionIsDeterministic(t *testing.T) {
	lister := &fakeLister{machines: []nicov1alpha1.Machine{
		machine("b", map[string]string{"pool": "x"}, false),
		machine("a", map[string]string{"pool": "x"}, false),
		machine("c", map[string]string{"pool": "x"}, false),
	}}
	roleSpec := nicov1alpha1.RoleSpec{
		MachineSelector: nicov1alpha1.RoleSelector{MatchLabels: map[string]string{"pool": "x"}, Count: 2},
	}
	first, err := Select(context.Background(), lister, "ns", "c1", "worker", roleSpec, nil)
	require.NoError(t, err)
	second, err := Select(context.Background(), lister, "ns", "c1", "worker", roleSpec, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"a", "b"}, first)
}

func TestSelect_CountLargerThanAvailablePoolIsClamped(t *testing.T) {
	lister := &fakeLister{machines: []nicov1alpha1.Machine{
		machine("a", map[string]string{"pool": "x"}, false),
	}}
	roleSpec := nicov1alpha1.RoleSpec{
		MachineSelector: nicov1alpha1.RoleSelector{MatchLabels: map[string]string{"pool": "x"}, Count: 10},
	}
	got, err := Select(context.Background(), lister, "ns", "c1", "worker", roleSpec, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}
