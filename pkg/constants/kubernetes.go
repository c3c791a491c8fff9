package constants

type KubernetesRole string

const (
	KUBERNETES_ROLE_CONTROL    KubernetesRole = "control"
	KUBERNETES_ROLE_WORKER     KubernetesRole = "worker"
	KUBERNETES_ROLE_STANDALONE KubernetesRole = "standalone"
)

// BastionHostname is the reserved node name for the SSH jump host.
const BastionHostname = "bastion"

// Kubespray inventory groups.
const (
	GroupAll              = "all"
	GroupKubeControlPlane = "kube_control_plane"
	GroupEtcd             = "etcd"
	GroupKubeNode         = "kube_node"
	GroupCalicoRR         = "calico_rr"
	GroupK8sCluster       = "k8s_cluster"
)
