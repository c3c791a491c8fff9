// Package inventory turns a map of provisioned nodes into a Kubespray
// inventory.
package inventory

import (
	"fmt"
	"strings"

	"github.com/terabiome/kubespray-inventory/pkg/constants"
)

type Role = constants.KubernetesRole

const (
	RoleControl    = constants.KUBERNETES_ROLE_CONTROL
	RoleWorker     = constants.KUBERNETES_ROLE_WORKER
	RoleStandalone = constants.KUBERNETES_ROLE_STANDALONE
)

// Mode selects which roles are accepted and how the inventory is laid out.
type Mode string

const (
	// ModeStrict accepts control and worker nodes only.
	ModeStrict Mode = "strict"
	// ModeBastion also accepts standalone nodes and emits the bastion
	// ProxyCommand when a public bastion is present.
	ModeBastion Mode = "bastion"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeStrict:
		return ModeStrict, nil
	case ModeBastion:
		return ModeBastion, nil
	default:
		return "", fmt.Errorf("invalid mode: %s (valid: strict, bastion)", s)
	}
}

// AcceptsRole reports whether r is a valid role in this mode.
func (m Mode) AcceptsRole(r Role) bool {
	switch r {
	case RoleControl, RoleWorker:
		return true
	case RoleStandalone:
		return m == ModeBastion
	default:
		return false
	}
}

func (m Mode) acceptedRoles() string {
	if m == ModeBastion {
		return "'control', 'worker' or 'standalone'"
	}
	return "'control' or 'worker'"
}

// Node is a single provisioned machine.
type Node struct {
	Hostname string
	IP       string
	Role     Role
	PublicIP string
}

// Bastion is the SSH jump host used to reach private cluster nodes.
type Bastion struct {
	Name      string
	PrivateIP string
	PublicIP  string
}

// Cluster is the classified view of a node set.
type Cluster struct {
	ControlPlane []string
	Workers      []string
	Bastion      *Bastion

	nodes map[string]Node
}

// Node returns the record for hostname.
func (c *Cluster) Node(hostname string) (Node, bool) {
	n, ok := c.nodes[hostname]
	return n, ok
}

// IsControlPlane reports whether hostname is in the control plane group.
func (c *Cluster) IsControlPlane(hostname string) bool {
	n, ok := c.nodes[hostname]
	return ok && n.Role == RoleControl
}

// HostCount returns the number of hosts placed in an operational group.
func (c *Cluster) HostCount() int {
	return len(c.ControlPlane) + len(c.Workers)
}
