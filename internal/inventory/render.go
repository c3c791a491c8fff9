package inventory

import (
	"embed"
	"fmt"
	"strings"

	"github.com/terabiome/kubespray-inventory/pkg/constants"
	"github.com/terabiome/kubespray-inventory/pkg/templator"
)

//go:embed templates/inventory.ini.tpl
var templatesFS embed.FS

const defaultINITemplate = "templates/inventory.ini.tpl"

type Format string

const (
	FormatINI  Format = "ini"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatINI:
		return FormatINI, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid format: %s (valid: ini, yaml)", s)
	}
}

const DefaultAnsiblePort = "22"

type RenderOptions struct {
	AnsibleUser string
	AnsiblePort string
	Become      bool
	Mode        Mode
	Format      Format
}

// INITemplateVars is the data handed to the INI template.
type INITemplateVars struct {
	Hosts         []string
	ControlPlane  []string
	Etcd          []string
	Workers       []string
	SSHCommonArgs string
}

// Renderer serializes a Cluster. Identical input always yields identical
// bytes.
type Renderer struct {
	engine *templator.Engine
}

// NewRenderer loads the INI template from templatePath, or the bundled one
// when templatePath is empty.
func NewRenderer(templatePath string) (*Renderer, error) {
	engine := templator.NewEngine()

	var err error
	if templatePath == "" {
		err = engine.LoadTemplateFS(constants.TemplateInventoryINI, templatesFS, defaultINITemplate)
	} else {
		err = engine.LoadTemplate(constants.TemplateInventoryINI, templatePath)
	}
	if err != nil {
		return nil, err
	}

	return &Renderer{engine: engine}, nil
}

func (r *Renderer) Render(cluster *Cluster, opts RenderOptions) ([]byte, error) {
	if opts.AnsiblePort == "" {
		opts.AnsiblePort = DefaultAnsiblePort
	}

	switch opts.Format {
	case FormatINI, "":
		return r.renderINI(cluster, opts)
	case FormatYAML:
		return renderYAML(cluster, opts)
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

func (r *Renderer) renderINI(cluster *Cluster, opts RenderOptions) ([]byte, error) {
	lines := HostLines(cluster, opts)
	hosts := make([]string, len(lines))
	for i, line := range lines {
		hosts[i] = line.String()
	}

	vars := INITemplateVars{
		Hosts:         hosts,
		ControlPlane:  cluster.ControlPlane,
		Etcd:          cluster.ControlPlane,
		Workers:       cluster.Workers,
		SSHCommonArgs: SSHCommonArgs(cluster.Bastion, opts),
	}

	out, err := r.engine.RenderToBytes(constants.TemplateInventoryINI, vars)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

// AllHosts returns the hosts of the [all] group. Strict mode interleaves
// roles in host order; bastion mode lists the control plane first.
func AllHosts(cluster *Cluster, mode Mode) []string {
	hosts := make([]string, 0, cluster.HostCount())
	hosts = append(hosts, cluster.ControlPlane...)
	hosts = append(hosts, cluster.Workers...)
	if mode != ModeBastion {
		SortHosts(hosts)
	}
	return hosts
}

// HostLines builds the [all] entries.
func HostLines(cluster *Cluster, opts RenderOptions) []*HostLine {
	hosts := AllHosts(cluster, opts.Mode)
	lines := make([]*HostLine, 0, len(hosts))
	for _, host := range hosts {
		node, _ := cluster.Node(host)
		line := NewHostLine(host).
			Set("ansible_host", node.IP).
			Set("ip", node.IP).
			Set("ansible_port", opts.AnsiblePort).
			SetIf(opts.AnsibleUser != "", "ansible_user", opts.AnsibleUser).
			SetIf(opts.Become, "ansible_become", "true").
			SetIf(cluster.IsControlPlane(host), "etcd_member_name", host)
		lines = append(lines, line)
	}
	return lines
}

// SSHCommonArgs returns the ansible_ssh_common_args value that tunnels
// through the bastion, or "" when there is no publicly reachable bastion.
// Host key checking is disabled on both hops.
func SSHCommonArgs(bastion *Bastion, opts RenderOptions) string {
	if bastion == nil || bastion.PublicIP == "" {
		return ""
	}

	target := bastion.PublicIP
	if opts.AnsibleUser != "" {
		target = opts.AnsibleUser + "@" + target
	}

	const noHostKeys = "-o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null"
	proxy := fmt.Sprintf("ssh %s -W %%h:%%p -p %s %s", noHostKeys, opts.AnsiblePort, target)

	return fmt.Sprintf(`'%s -o ProxyCommand="%s"'`, noHostKeys, proxy)
}
