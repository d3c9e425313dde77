package childmanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	nicov1alpha1 "github.com/homystack/nico-cluster-controller/apis/v1alpha1"
	"github.com/homystack/nico-cluster-controller/pkg/apigateway"
	"github.com/homystack/nico-cluster-controller/pkg/fieldpatch"
)

type fakeGateway struct {
	configs map[string]*nicov1alpha1.NixosConfiguration
	secrets map[string]*corev1.Secret

	lastPatch *fieldpatch.Patch
	createErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		configs: map[string]*nicov1alpha1.NixosConfiguration{},
		secrets: map[string]*corev1.Secret{},
	}
}

func (f *fakeGateway) GetConfig(_ context.Context, namespace, name string) (*nicov1alpha1.NixosConfiguration, error) {
	cfg, ok := f.configs[namespace+"/"+name]
	if !ok {
		return nil, apigateway.ErrNotFound
	}
	return cfg, nil
}

func (f *fakeGateway) CreateConfig(_ context.Context, cfg *nicov1alpha1.NixosConfiguration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.configs[cfg.Namespace+"/"+cfg.Name] = cfg
	return nil
}

func (f *fakeGateway) PatchConfigSpec(_ context.Context, cfg *nicov1alpha1.NixosConfiguration, patch *fieldpatch.Patch) error {
	f.lastPatch = patch
	return nil
}

func (f *fakeGateway) GetSecret(_ context.Context, namespace, name string) (*corev1.Secret, error) {
	s, ok := f.secrets[namespace+"/"+name]
	if !ok {
		return nil, apigateway.ErrNotFound
	}
	return s, nil
}

func (f *fakeGateway) CreateSecret(_ context.Context, namespace, name, key string, value []byte) error {
	f.secrets[namespace+"/"+name] = &corev1.Secret{Data: map[string][]byte{key: value}}
	return nil
}

type fixedTokens struct{ value string }

func (f fixedTokens) Token(_ context.Context, _, _ string) (string, error) { return f.value, nil }

func testOwner() metav1.OwnerReference {
	isController := true
	return metav1.OwnerReference{APIVersion: "nico.homystack.com/v1alpha1", Kind: "KubernetesCluster", Name: "demo", Controller: &isController}
}

// P5: creation populates name, owner, labels, write-once fields and the
// ordered additionalFiles list, including the conditional ssh-key entry.
func TestEnsureChild_CreatesWithExpectedShape(t *testing.T) {
	gw := newFakeGateway()
	m := NewManager(gw, fixedTokens{value: "tok"})

	clusterSpec := nicov1alpha1.KubernetesClusterSpec{GitRepo: "git@example.com/repo", Ref: "main"}
	machine := MachineInfo{Name: "node-1", SSHKeySecretName: "node-1-ssh"}

	name, err := m.EnsureChild(context.Background(), testOwner(), "ns", "demo", clusterSpec, nicov1alpha1.RoleControlPlane, machine, "demo-join-token", "doc")
	require.NoError(t, err)
	assert.Equal(t, "demo-node-1", name)

	cfg := gw.configs["ns/demo-node-1"]
	require.NotNil(t, cfg)
	assert.Equal(t, map[string]string{"cluster": "demo", "role": "control-plane"}, cfg.Labels)
	assert.Equal(t, "#node-1", cfg.Spec.Flake)
	assert.Equal(t, "#minimal", cfg.Spec.OnRemoveFlake)
	assert.True(t, cfg.Spec.FullInstall, "fresh machine with no install-applied annotation must request full install")
	require.Len(t, cfg.Spec.AdditionalFiles, 3)
	assert.Equal(t, "cluster.nix", cfg.Spec.AdditionalFiles[0].Path)
	assert.Equal(t, "join-token", cfg.Spec.AdditionalFiles[1].Path)
	assert.Equal(t, "machine-ssh-key", cfg.Spec.AdditionalFiles[2].Path)
}

// P6: a machine already carrying the full-install annotation does not
// request reinstallation.
func TestEnsureChild_SkipsFullInstallWhenAlreadyApplied(t *testing.T) {
	gw := newFakeGateway()
	m := NewManager(gw, nil)

	clusterSpec := nicov1alpha1.KubernetesClusterSpec{GitRepo: "git@example.com/repo"}
	machine := MachineInfo{Name: "node-1", FullInstallApplied: true}

	_, err := m.EnsureChild(context.Background(), testOwner(), "ns", "demo", clusterSpec, nicov1alpha1.RoleWorker, machine, "demo-join-token", "doc")
	require.NoError(t, err)
	assert.False(t, gw.configs["ns/demo-node-1"].Spec.FullInstall)
}

// P7/S3: drift repair only ever touches the four configurable fields, never
// flake/machineRef/fullInstall/additionalFiles, and is a no-op when nothing
// changed.
func TestDriftPatch_CoversOnlyConfigurableFields(t *testing.T) {
	parent := nicov1alpha1.KubernetesClusterSpec{
		GitRepo:             "git@example.com/new",
		Ref:                 "",
		ConfigurationSubdir: "clusters/demo",
		CredentialsRef:      nil,
	}
	existing := nicov1alpha1.NixosConfigurationSpec{
		GitRepo:             "git@example.com/old",
		Ref:                 "main",
		ConfigurationSubdir: "",
		CredentialsRef:      &nicov1alpha1.SecretKeyRef{Name: "creds"},
	}

	patch := driftPatch(parent, existing)
	assert.ElementsMatch(t, []string{"gitRepo", "ref", "configurationSubdir", "credentialsRef"}, patch.Fields())
}

func TestDriftPatch_NoOpWhenIdentical(t *testing.T) {
	spec := nicov1alpha1.KubernetesClusterSpec{GitRepo: "same", Ref: "main", ConfigurationSubdir: "sub"}
	existing := nicov1alpha1.NixosConfigurationSpec{GitRepo: "same", Ref: "main", ConfigurationSubdir: "sub"}
	patch := driftPatch(spec, existing)
	assert.True(t, patch.IsEmpty())
}

func TestEnsureChild_ExistingChildIsPatchedNotRecreated(t *testing.T) {
	gw := newFakeGateway()
	gw.configs["ns/demo-node-1"] = &nicov1alpha1.NixosConfiguration{
		Spec: nicov1alpha1.NixosConfigurationSpec{GitRepo: "old-repo"},
	}
	m := NewManager(gw, nil)

	clusterSpec := nicov1alpha1.KubernetesClusterSpec{GitRepo: "new-repo"}
	machine := MachineInfo{Name: "node-1"}

	name, err := m.EnsureChild(context.Background(), testOwner(), "ns", "demo", clusterSpec, nicov1alpha1.RoleWorker, machine, "demo-join-token", "doc")
	require.NoError(t, err)
	assert.Equal(t, "demo-node-1", name)
	require.NotNil(t, gw.lastPatch)
	assert.Equal(t, []string{"gitRepo"}, gw.lastPatch.Fields())
}

// The join-token secret is created once and reused thereafter, never
// recreated on a later reconcile.
func TestEnsureJoinTokenSecret_CreatesOnceThenReuses(t *testing.T) {
	gw := newFakeGateway()
	m := NewManager(gw, fixedTokens{value: "tok-1"})

	require.NoError(t, m.EnsureJoinTokenSecret(context.Background(), "ns", "demo"))
	m.Tokens = fixedTokens{value: "tok-2"}
	require.NoError(t, m.EnsureJoinTokenSecret(context.Background(), "ns", "demo"))

	secret := gw.secrets["ns/demo-join-token"]
	require.NotNil(t, secret)
	assert.Equal(t, []byte("tok-1"), secret.Data["token"])
}
