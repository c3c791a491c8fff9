package inventory

import "github.com/terabiome/kubespray-inventory/pkg/constants"

// Policy decides which empty groups are fatal.
type Policy struct {
	RequireControlPlane bool
	RequireWorkers      bool
}

// DefaultPolicy returns the group requirements for mode. Strict mode needs a
// working cluster; bastion mode accepts partial node sets.
func DefaultPolicy(mode Mode) Policy {
	if mode == ModeBastion {
		return Policy{}
	}
	return Policy{RequireControlPlane: true, RequireWorkers: true}
}

// Classify partitions nodes into the control plane and worker groups in host
// order and picks out the bastion. Standalone nodes other than the bastion are
// left out of every group.
func Classify(nodes map[string]Node, policy Policy) (*Cluster, error) {
	hosts := make([]string, 0, len(nodes))
	for host := range nodes {
		hosts = append(hosts, host)
	}
	SortHosts(hosts)

	cluster := &Cluster{nodes: nodes}
	for _, host := range hosts {
		node := nodes[host]
		switch node.Role {
		case RoleControl:
			cluster.ControlPlane = append(cluster.ControlPlane, host)
		case RoleWorker:
			cluster.Workers = append(cluster.Workers, host)
		case RoleStandalone:
			if host == constants.BastionHostname {
				cluster.Bastion = &Bastion{
					Name:      host,
					PrivateIP: node.IP,
					PublicIP:  node.PublicIP,
				}
			}
		}
	}

	if policy.RequireControlPlane && len(cluster.ControlPlane) == 0 {
		return nil, ErrNoControlNodes
	}
	if policy.RequireWorkers && len(cluster.Workers) == 0 {
		return nil, ErrNoWorkerNodes
	}

	return cluster, nil
}
