package inventory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRender(t *testing.T, nodes map[string]Node, policy Policy, opts RenderOptions) string {
	t.Helper()

	cluster, err := Classify(nodes, policy)
	require.NoError(t, err)

	r, err := NewRenderer("")
	require.NoError(t, err)

	out, err := r.Render(cluster, opts)
	require.NoError(t, err)
	return string(out)
}

// section returns the lines under header up to the next blank line.
func section(t *testing.T, out, header string) []string {
	t.Helper()

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if line != header {
			continue
		}
		var body []string
		for _, l := range lines[i+1:] {
			if l == "" {
				break
			}
			body = append(body, l)
		}
		return body
	}
	t.Fatalf("section %s not found in:\n%s", header, out)
	return nil
}

func TestRender_Strict(t *testing.T) {
	nodes := nodeSet(
		Node{Hostname: "master-01", IP: "10.0.0.2", Role: RoleControl},
		Node{Hostname: "worker-01", IP: "10.0.0.5", Role: RoleWorker},
	)

	out := mustRender(t, nodes, DefaultPolicy(ModeStrict), RenderOptions{AnsiblePort: "22", Mode: ModeStrict})

	expect := `[all]
master-01 ansible_host=10.0.0.2 ip=10.0.0.2 ansible_port=22 etcd_member_name=master-01
worker-01 ansible_host=10.0.0.5 ip=10.0.0.5 ansible_port=22

[kube_control_plane]
master-01

[etcd]
master-01

[kube_node]
worker-01

[calico_rr]

[k8s_cluster:children]
kube_control_plane
kube_node
calico_rr
`
	assert.Equal(t, expect, out)
	assert.NotContains(t, out, "ansible_user=")
	assert.NotContains(t, out, "ansible_become=")
}

func TestRender_HostVars(t *testing.T) {
	nodes := nodeSet(
		Node{Hostname: "master-01", IP: "10.0.0.2", Role: RoleControl},
		Node{Hostname: "worker-01", IP: "10.0.0.5", Role: RoleWorker},
	)

	out := mustRender(t, nodes, DefaultPolicy(ModeStrict), RenderOptions{
		AnsibleUser: "ubuntu",
		AnsiblePort: "2222",
		Become:      true,
		Mode:        ModeStrict,
	})

	assert.Equal(t, []string{
		"master-01 ansible_host=10.0.0.2 ip=10.0.0.2 ansible_port=2222 ansible_user=ubuntu ansible_become=true etcd_member_name=master-01",
		"worker-01 ansible_host=10.0.0.5 ip=10.0.0.5 ansible_port=2222 ansible_user=ubuntu ansible_become=true",
	}, section(t, out, "[all]"))
}

func TestRender_DefaultPort(t *testing.T) {
	nodes := nodeSet(
		Node{Hostname: "m1", IP: "10.0.0.2", Role: RoleControl},
		Node{Hostname: "w1", IP: "10.0.0.5", Role: RoleWorker},
	)

	out := mustRender(t, nodes, DefaultPolicy(ModeStrict), RenderOptions{})
	assert.Contains(t, out, "m1 ansible_host=10.0.0.2 ip=10.0.0.2 ansible_port=22 ")
}

func TestRender_Invariants(t *testing.T) {
	nodes := nodeSet(
		Node{Hostname: "worker-10", IP: "10.0.0.20", Role: RoleWorker},
		Node{Hostname: "worker-2", IP: "10.0.0.12", Role: RoleWorker},
		Node{Hostname: "worker-1", IP: "10.0.0.11", Role: RoleWorker},
		Node{Hostname: "master-3", IP: "10.0.0.4", Role: RoleControl},
		Node{Hostname: "master-1", IP: "10.0.0.2", Role: RoleControl},
	)
	opts := RenderOptions{AnsibleUser: "debian", AnsiblePort: "22", Become: true, Mode: ModeStrict}

	first := mustRender(t, nodes, DefaultPolicy(ModeStrict), opts)
	second := mustRender(t, nodes, DefaultPolicy(ModeStrict), opts)
	assert.Equal(t, first, second)

	control := section(t, first, "[kube_control_plane]")
	workers := section(t, first, "[kube_node]")
	assert.Equal(t, []string{"master-1", "master-3"}, control)
	assert.Equal(t, control, section(t, first, "[etcd]"))
	assert.Equal(t, []string{"worker-1", "worker-2", "worker-10"}, workers)

	var all []string
	for _, line := range section(t, first, "[all]") {
		all = append(all, strings.Fields(line)[0])
	}
	assert.Equal(t, []string{"master-1", "master-3", "worker-1", "worker-2", "worker-10"}, all)
	for _, host := range all {
		inControl := contains(control, host)
		inWorkers := contains(workers, host)
		assert.True(t, inControl != inWorkers, "host %s must be in exactly one role group", host)
	}

	assert.Equal(t, []string{"kube_control_plane", "kube_node", "calico_rr"}, section(t, first, "[k8s_cluster:children]"))
	assert.Nil(t, section(t, first, "[calico_rr]"))
	assert.True(t, strings.HasSuffix(first, "calico_rr\n"))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestRender_AllOrderByMode(t *testing.T) {
	nodes := nodeSet(
		Node{Hostname: "a-worker-1", IP: "10.0.0.5", Role: RoleWorker},
		Node{Hostname: "z-cp-1", IP: "10.0.0.2", Role: RoleControl},
	)

	strict := mustRender(t, nodes, DefaultPolicy(ModeStrict), RenderOptions{Mode: ModeStrict})
	assert.Equal(t, "a-worker-1", strings.Fields(section(t, strict, "[all]")[0])[0])

	bastion := mustRender(t, nodes, DefaultPolicy(ModeBastion), RenderOptions{Mode: ModeBastion})
	assert.Equal(t, "z-cp-1", strings.Fields(section(t, bastion, "[all]")[0])[0])
}

func TestRender_Bastion(t *testing.T) {
	nodes := nodeSet(
		Node{Hostname: "bastion", IP: "10.0.0.9", Role: RoleStandalone, PublicIP: "203.0.113.9"},
		Node{Hostname: "cp-1", IP: "10.0.0.2", Role: RoleControl},
		Node{Hostname: "worker-1", IP: "10.0.0.5", Role: RoleWorker},
	)

	out := mustRender(t, nodes, DefaultPolicy(ModeBastion), RenderOptions{
		AnsibleUser: "debian",
		AnsiblePort: "22",
		Become:      true,
		Mode:        ModeBastion,
	})

	for _, line := range section(t, out, "[all]") {
		assert.False(t, strings.HasPrefix(line, "bastion "), "bastion must not be an inventory host")
	}
	assert.Equal(t, []string{
		`ansible_ssh_common_args='-o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null -o ProxyCommand="ssh -o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null -W %h:%p -p 22 debian@203.0.113.9"'`,
	}, section(t, out, "[k8s_cluster:vars]"))
	assert.True(t, strings.HasSuffix(out, "[k8s_cluster:vars]\n"+section(t, out, "[k8s_cluster:vars]")[0]+"\n"))

	delete(nodes, "bastion")
	nodes["bastion"] = Node{Hostname: "bastion", IP: "10.0.0.9", Role: RoleStandalone}
	out = mustRender(t, nodes, DefaultPolicy(ModeBastion), RenderOptions{AnsibleUser: "debian", Mode: ModeBastion})
	assert.NotContains(t, out, "[k8s_cluster:vars]")
	assert.NotContains(t, out, "ProxyCommand")
}

func TestRender_BastionModeEmptyGroups(t *testing.T) {
	nodes := nodeSet(Node{Hostname: "cp-1", IP: "10.0.0.2", Role: RoleControl})

	out := mustRender(t, nodes, DefaultPolicy(ModeBastion), RenderOptions{Mode: ModeBastion})
	assert.Nil(t, section(t, out, "[kube_node]"))
	assert.Equal(t, []string{"cp-1"}, section(t, out, "[etcd]"))
}

func TestSSHCommonArgs(t *testing.T) {
	assert.Empty(t, SSHCommonArgs(nil, RenderOptions{}))
	assert.Empty(t, SSHCommonArgs(&Bastion{Name: "bastion", PrivateIP: "10.0.0.9"}, RenderOptions{}))

	args := SSHCommonArgs(&Bastion{Name: "bastion", PublicIP: "203.0.113.9"}, RenderOptions{AnsiblePort: "2200"})
	assert.Contains(t, args, `-W %h:%p -p 2200 203.0.113.9"`)
	assert.NotContains(t, args, "@")
}

func TestNewRenderer_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.ini.tpl")
	tpl := `[masters]{{range .ControlPlane}} {{.}}{{end}}`
	require.NoError(t, os.WriteFile(path, []byte(tpl), 0o644))

	r, err := NewRenderer(path)
	require.NoError(t, err)

	cluster, err := Classify(nodeSet(
		Node{Hostname: "m2", IP: "10.0.0.3", Role: RoleControl},
		Node{Hostname: "m1", IP: "10.0.0.2", Role: RoleControl},
	), Policy{})
	require.NoError(t, err)

	out, err := r.Render(cluster, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "[masters] m1 m2\n", string(out))
}

func TestRender_UnsupportedFormat(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	_, err = r.Render(&Cluster{}, RenderOptions{Format: "toml"})
	assert.EqualError(t, err, "unsupported format: toml")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("json")
	assert.Error(t, err)
}
