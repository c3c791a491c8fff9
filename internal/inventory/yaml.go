package inventory

import (
	"bytes"
	"fmt"

	"github.com/terabiome/kubespray-inventory/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Values of these vars are emitted untagged so Ansible reads them as int and
// bool rather than strings.
var untaggedVars = map[string]bool{
	"ansible_port":   true,
	"ansible_become": true,
}

// renderYAML emits the Kubespray hosts.yaml layout. Nodes are built by hand so
// host order follows the inventory ordering instead of yaml.v3's sorted map
// keys.
func renderYAML(cluster *Cluster, opts RenderOptions) ([]byte, error) {
	hosts := mappingNode()
	for _, line := range HostLines(cluster, opts) {
		vars := mappingNode()
		for _, v := range line.Vars {
			value := strNode(v.Value)
			if untaggedVars[v.Key] {
				value = &yaml.Node{Kind: yaml.ScalarNode, Value: v.Value}
			}
			appendPair(vars, v.Key, value)
		}
		appendPair(hosts, line.Host, vars)
	}

	k8sCluster := mappingNode()
	children := mappingNode()
	for _, group := range []string{constants.GroupKubeControlPlane, constants.GroupKubeNode, constants.GroupCalicoRR} {
		appendPair(children, group, emptyMapping())
	}
	appendPair(k8sCluster, "children", children)
	if args := SSHCommonArgs(cluster.Bastion, opts); args != "" {
		vars := mappingNode()
		appendPair(vars, "ansible_ssh_common_args", strNode(unquoteShell(args)))
		appendPair(k8sCluster, "vars", vars)
	}

	groups := mappingNode()
	appendPair(groups, constants.GroupKubeControlPlane, hostGroup(cluster.ControlPlane))
	appendPair(groups, constants.GroupEtcd, hostGroup(cluster.ControlPlane))
	appendPair(groups, constants.GroupKubeNode, hostGroup(cluster.Workers))
	appendPair(groups, constants.GroupCalicoRR, hostGroup(nil))
	appendPair(groups, constants.GroupK8sCluster, k8sCluster)

	all := mappingNode()
	appendPair(all, "hosts", hosts)
	appendPair(all, "children", groups)

	root := mappingNode()
	appendPair(root, constants.GroupAll, all)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to encode yaml inventory: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml inventory: %w", err)
	}

	return buf.Bytes(), nil
}

func hostGroup(hosts []string) *yaml.Node {
	members := mappingNode()
	for _, host := range hosts {
		appendPair(members, host, emptyMapping())
	}
	if len(hosts) == 0 {
		members.Style = yaml.FlowStyle
	}

	group := mappingNode()
	appendPair(group, "hosts", members)
	return group
}

// unquoteShell drops the outer single quotes needed by the INI format; YAML
// scalars carry their own quoting.
func unquoteShell(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func emptyMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, strNode(key), value)
}
