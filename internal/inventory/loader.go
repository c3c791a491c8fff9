package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/tidwall/jsonc"
)

// LoadOptions control how the node file is decoded and validated.
type LoadOptions struct {
	Mode Mode
	// TerraformOutputKey, when set, reads the node map from the "value" field
	// of the named entry in `terraform output -json` output.
	TerraformOutputKey string
}

// Load reads the node file at path. Comments and trailing commas are
// tolerated.
func Load(path string, opts LoadOptions) (map[string]Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return parse(path, data, opts)
}

// Parse decodes and validates a node document held in memory.
func Parse(data []byte, opts LoadOptions) (map[string]Node, error) {
	return parse("", data, opts)
}

func parse(path string, data []byte, opts LoadOptions) (map[string]Node, error) {
	if opts.Mode == "" {
		opts.Mode = ModeStrict
	}

	var doc any
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if opts.TerraformOutputKey != "" {
		value, err := unwrapTerraformOutput(doc, opts.TerraformOutputKey)
		if err != nil {
			return nil, err
		}
		doc = value
	}

	raw, ok := doc.(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, &SchemaError{Reason: "input JSON must be a non-empty object keyed by hostname"}
	}

	// Validate in a stable order so the reported error does not depend on map
	// iteration.
	hosts := make([]string, 0, len(raw))
	for host := range raw {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	nodes := make(map[string]Node, len(raw))
	for _, host := range hosts {
		node, err := decodeNode(host, raw[host], opts.Mode)
		if err != nil {
			return nil, err
		}
		nodes[host] = node
	}

	return nodes, nil
}

func unwrapTerraformOutput(doc any, key string) (any, error) {
	outputs, ok := doc.(map[string]any)
	if !ok {
		return nil, &SchemaError{Reason: "terraform output must be a JSON object"}
	}
	entry, ok := outputs[key].(map[string]any)
	if !ok {
		return nil, &SchemaError{Reason: fmt.Sprintf("terraform output '%s' not found", key)}
	}
	value, ok := entry["value"]
	if !ok {
		return nil, &SchemaError{Reason: fmt.Sprintf("terraform output '%s' has no value", key)}
	}
	return value, nil
}

func decodeNode(host string, v any, mode Mode) (Node, error) {
	if host == "" {
		return Node{}, &SchemaError{Reason: "invalid hostname key: ''"}
	}

	fields, ok := v.(map[string]any)
	if !ok {
		return Node{}, &SchemaError{Host: host, Reason: "value must be an object"}
	}

	rawIP, hasIP := fields["ip"]
	rawRole, hasRole := fields["role"]
	if !hasIP || !hasRole {
		return Node{}, &SchemaError{Host: host, Reason: "must have 'ip' and 'role'"}
	}

	ip, ok := rawIP.(string)
	if !ok || ip == "" {
		return Node{}, &SchemaError{Host: host, Reason: "has invalid ip"}
	}

	role, ok := rawRole.(string)
	if !ok || !mode.AcceptsRole(Role(role)) {
		return Node{}, &SchemaError{Host: host, Reason: "role must be " + mode.acceptedRoles()}
	}

	node := Node{
		Hostname: host,
		IP:       ip,
		Role:     Role(role),
	}

	switch pub := fields["public_ip"].(type) {
	case nil:
	case string:
		node.PublicIP = pub
	default:
		return Node{}, &SchemaError{Host: host, Reason: "has invalid public_ip"}
	}

	return node, nil
}
