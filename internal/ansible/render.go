// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package ansible

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptGroup is a group entry of the script inventory JSON document.
type scriptGroup struct {
	Hosts    []string `json:"hosts,omitempty"`
	Children []string `json:"children,omitempty"`
}

type scriptMeta struct {
	Hostvars map[string]map[string]string `json:"hostvars"`
}

// ListJSON renders the inventory as the document an inventory script prints
// for --list. Host variables are embedded under _meta so Ansible does not
// call the script once per host.
func (i *Inventory) ListJSON() ([]byte, error) {
	doc := make(map[string]any, len(i.groupOrder)+3)

	hostvars := make(map[string]map[string]string, len(i.hostOrder))
	for _, name := range i.hostOrder {
		hostvars[name] = i.HostVars(name)
	}
	doc["_meta"] = scriptMeta{Hostvars: hostvars}

	children := append([]string{GroupUngrouped}, i.groupOrder...)
	doc[GroupAll] = scriptGroup{Children: children}
	doc[GroupUngrouped] = scriptGroup{Hosts: i.ungrouped()}
	for _, name := range i.groupOrder {
		doc[name] = scriptGroup{Hosts: i.GroupHosts(name)}
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding inventory: %w", err)
	}
	return b, nil
}

// HostJSON renders the variables of one host, the answer to --host. Unknown
// hosts render as an empty object.
func (i *Inventory) HostJSON(name string) ([]byte, error) {
	vars := i.HostVars(name)
	if vars == nil {
		vars = map[string]string{}
	}
	b, err := json.MarshalIndent(vars, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error encoding variables of host %q: %w", name, err)
	}
	return b, nil
}

// yamlGroup mirrors a group of the Ansible YAML inventory format.
type yamlGroup struct {
	Hosts    map[string]map[string]string `yaml:"hosts,omitempty"`
	Children map[string]*yamlGroup        `yaml:"children,omitempty"`
}

// YAMLInventory is the root of the Ansible YAML inventory format.
type YAMLInventory map[string]*yamlGroup

// YAML renders the inventory in the Ansible YAML inventory format. Variables
// are attached to the host entries under "all"; group entries only list
// membership.
func (i *Inventory) YAML() ([]byte, error) {
	all := &yamlGroup{}
	if len(i.hostOrder) > 0 {
		all.Hosts = make(map[string]map[string]string, len(i.hostOrder))
		for _, name := range i.hostOrder {
			all.Hosts[name] = i.HostVars(name)
		}
	}
	if len(i.groupOrder) > 0 {
		all.Children = make(map[string]*yamlGroup, len(i.groupOrder))
		for _, name := range i.groupOrder {
			g := &yamlGroup{Hosts: make(map[string]map[string]string)}
			for _, h := range i.groups[name].hosts {
				g.Hosts[h] = nil
			}
			all.Children[name] = g
		}
	}

	b, err := yaml.Marshal(YAMLInventory{GroupAll: all})
	if err != nil {
		return nil, fmt.Errorf("error encoding inventory as yaml: %w", err)
	}
	return b, nil
}
