// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package ansible holds an in-memory Ansible inventory and renders it in the
// formats Ansible reads: script inventory JSON and YAML inventory.
package ansible

import (
	"fmt"
)

const (
	// GroupAll is the implicit group every host belongs to.
	GroupAll = "all"
	// GroupUngrouped holds hosts that are not a member of any other group.
	GroupUngrouped = "ungrouped"
)

// Sink receives hosts, groups and variables from an inventory source.
// Adding an existing group or host is a no-op. An empty group passed to
// AddHost means no group membership.
type Sink interface {
	AddGroup(name string) error
	AddHost(name, group string) error
	SetVariable(host, key, value string) error
}

type group struct {
	name  string
	hosts []string
	seen  map[string]struct{}
}

type host struct {
	name   string
	vars   map[string]string
	groups []string
}

// Inventory is an in-memory Sink. Hosts and groups keep the order they were
// first added in.
type Inventory struct {
	groups     map[string]*group
	groupOrder []string
	hosts      map[string]*host
	hostOrder  []string
}

var _ Sink = (*Inventory)(nil)

// NewInventory returns an empty Inventory.
func NewInventory() *Inventory {
	return &Inventory{
		groups: make(map[string]*group),
		hosts:  make(map[string]*host),
	}
}

// AddGroup creates a group. The implicit groups all and ungrouped always
// exist and are not created.
func (i *Inventory) AddGroup(name string) error {
	if name == "" {
		return fmt.Errorf("group name is empty")
	}
	if name == GroupAll || name == GroupUngrouped {
		return nil
	}
	if _, ok := i.groups[name]; ok {
		return nil
	}
	i.groups[name] = &group{name: name, seen: make(map[string]struct{})}
	i.groupOrder = append(i.groupOrder, name)
	return nil
}

// AddHost registers a host and, when groupName is set, adds it to that
// group. The group must have been created with AddGroup.
func (i *Inventory) AddHost(name, groupName string) error {
	if name == "" {
		return fmt.Errorf("host name is empty")
	}

	var g *group
	if groupName != "" && groupName != GroupAll && groupName != GroupUngrouped {
		existing, ok := i.groups[groupName]
		if !ok {
			return fmt.Errorf("cannot add host %q to unknown group %q", name, groupName)
		}
		g = existing
	}

	h, ok := i.hosts[name]
	if !ok {
		h = &host{name: name, vars: make(map[string]string)}
		i.hosts[name] = h
		i.hostOrder = append(i.hostOrder, name)
	}

	if g != nil {
		if _, member := g.seen[name]; !member {
			g.seen[name] = struct{}{}
			g.hosts = append(g.hosts, name)
			h.groups = append(h.groups, g.name)
		}
	}
	return nil
}

// SetVariable sets a host variable, replacing any previous value.
func (i *Inventory) SetVariable(host, key, value string) error {
	h, ok := i.hosts[host]
	if !ok {
		return fmt.Errorf("cannot set variable %q on unknown host %q", key, host)
	}
	if key == "" {
		return fmt.Errorf("variable name for host %q is empty", host)
	}
	h.vars[key] = value
	return nil
}

// Hosts returns host names in registration order.
func (i *Inventory) Hosts() []string {
	return append([]string(nil), i.hostOrder...)
}

// Groups returns explicitly created group names in creation order.
func (i *Inventory) Groups() []string {
	return append([]string(nil), i.groupOrder...)
}

// GroupHosts returns the members of the named group. For GroupAll every host
// is returned; for GroupUngrouped the hosts without group membership.
func (i *Inventory) GroupHosts(name string) []string {
	switch name {
	case GroupAll:
		return i.Hosts()
	case GroupUngrouped:
		return i.ungrouped()
	}
	g, ok := i.groups[name]
	if !ok {
		return nil
	}
	return append([]string(nil), g.hosts...)
}

// HostVars returns a copy of the variables of the named host, or nil if the
// host is unknown.
func (i *Inventory) HostVars(name string) map[string]string {
	h, ok := i.hosts[name]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(h.vars))
	for k, v := range h.vars {
		out[k] = v
	}
	return out
}

// HostGroups returns the explicit groups the host belongs to.
func (i *Inventory) HostGroups(name string) []string {
	h, ok := i.hosts[name]
	if !ok {
		return nil
	}
	return append([]string(nil), h.groups...)
}

func (i *Inventory) ungrouped() []string {
	var out []string
	for _, name := range i.hostOrder {
		if len(i.hosts[name].groups) == 0 {
			out = append(out, name)
		}
	}
	return out
}
