package service

import "github.com/terabiome/kubespray-inventory/internal/inventory"

// GenerateParams contains transport-agnostic parameters for generating an
// inventory.
type GenerateParams struct {
	InputPath          string
	OutputPath         string
	Mode               inventory.Mode
	Format             inventory.Format
	TerraformOutputKey string
	AnsibleUser        string
	AnsiblePort        string
	Become             bool
	Policy             inventory.Policy
}

// GenerateResult summarizes a successful run.
type GenerateResult struct {
	OutputPath   string
	ControlPlane []string
	Workers      []string
	Bastion      *inventory.Bastion
	Bytes        int
}
