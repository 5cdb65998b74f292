// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/ansible"
	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/credential"
	"github.com/hashicorp/go-hclog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"
)

// InventoryPlugin builds an Ansible inventory from the instances of a
// Yandex Cloud folder.
type InventoryPlugin struct {
	logger    hclog.Logger
	lookupEnv func(string) (string, bool)

	// testDialOpts are passed in to the SDK to control test behavior
	testDialOpts []grpc.DialOption
	// testStateOpts are passed in to the state to control test behavior
	testStateOpts []inventoryStateOption
}

// NewInventoryPlugin returns an InventoryPlugin.
func NewInventoryPlugin(opt ...Option) *InventoryPlugin {
	opts := getOpts(opt...)
	return &InventoryPlugin{
		logger:    opts.withLogger,
		lookupEnv: opts.withLookupEnvFunc,
	}
}

// Name returns the value inventory files select the plugin with.
func (p *InventoryPlugin) Name() string {
	return PluginName
}

// VerifyFile reports whether path can be an inventory file of this plugin.
func (p *InventoryPlugin) VerifyFile(path string) bool {
	return strings.HasSuffix(path, "yml") || strings.HasSuffix(path, "yaml")
}

// Parse reads the inventory file at path and registers the hosts of the
// configured folder with sink.
func (p *InventoryPlugin) Parse(ctx context.Context, sink ansible.Sink, path string) error {
	if !p.VerifyFile(path) {
		return status.Errorf(codes.InvalidArgument, "unsupported inventory file %q: expected a yml or yaml file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return status.Errorf(codes.FailedPrecondition, "error reading inventory file: %s", err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return status.Errorf(codes.InvalidArgument, "error parsing inventory file %q: %s", path, err)
	}

	attrs, err := structpb.NewStruct(raw)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "error converting inventory file %q: %s", path, err)
	}

	return p.ParseAttributes(ctx, sink, attrs)
}

// ParseAttributes registers the hosts described by already loaded inventory
// attributes with sink. Configuration and credentials are validated before
// any request is sent, and nothing is written to sink unless every instance
// was listed and mapped.
func (p *InventoryPlugin) ParseAttributes(ctx context.Context, sink ansible.Sink, in *structpb.Struct) error {
	if sink == nil {
		return status.Error(codes.InvalidArgument, "inventory sink is nil")
	}
	if in == nil {
		return status.Error(codes.InvalidArgument, "attributes are required")
	}

	attrs, err := getInventoryAttributes(in)
	if err != nil {
		return err
	}

	auth, err := attrs.CredentialAttributes.Config().Resolve(credential.WithLookupEnvFunc(p.lookupEnv))
	if err != nil {
		return err
	}
	p.logger.Debug("resolved credentials", "method", auth.Method.String(), "folder_id", attrs.FolderId)

	state, err := newInventoryState(
		append([]inventoryStateOption{
			withAuth(auth),
		}, p.testStateOpts...)...,
	)
	if err != nil {
		return status.Errorf(codes.Internal, "error setting up inventory state: %s", err)
	}

	instancesClient, shutdown, err := state.InstancesClient(ctx, p.testDialOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			p.logger.Warn("sdk shutdown failed", "error", err)
		}
	}()

	instances, err := getInstances(ctx, instancesClient, attrs.FolderId)
	if err != nil {
		return status.Errorf(status.Code(err), "error running list instances for folder %q: %s", attrs.FolderId, status.Convert(err).Message())
	}
	p.logger.Debug("listed instances", "folder_id", attrs.FolderId, "count", len(instances))

	hosts := make([]*hostEntry, 0, len(instances))
	seen := make(map[string]string, len(instances))
	for _, instance := range instances {
		if len(instance.GetNetworkInterfaces()) == 0 {
			p.logger.Warn("instance has no network interfaces, ansible_host is left unset", "instance", instance.GetName(), "id", instance.GetId())
		}

		host, err := instanceToHost(instance, attrs.Group)
		if err != nil {
			return status.Errorf(codes.Internal, "error processing instance %q: %s", instance.GetId(), err)
		}
		if host == nil {
			p.logger.Debug("instance excluded by label", "instance", instance.GetName(), "label", labelAnsible+"=false")
			continue
		}
		if prev, ok := seen[host.Name]; ok {
			p.logger.Warn("host name collision after normalization, variables and groups are merged",
				"host", host.Name, "instance", instance.GetName(), "previous_instance", prev)
		} else {
			seen[host.Name] = instance.GetName()
		}
		hosts = append(hosts, host)
	}

	if attrs.Group != "" {
		if err := sink.AddGroup(attrs.Group); err != nil {
			return status.Errorf(codes.Internal, "error adding group %q: %s", attrs.Group, err)
		}
	}
	for _, host := range hosts {
		if err := registerHost(sink, host); err != nil {
			return status.Errorf(codes.Internal, "error registering host %q: %s", host.Name, err)
		}
	}
	p.logger.Debug("inventory populated", "hosts", len(hosts))

	return nil
}

func registerHost(sink ansible.Sink, host *hostEntry) error {
	if err := sink.AddHost(host.Name, ""); err != nil {
		return err
	}

	keys := make([]string, 0, len(host.Vars))
	for k := range host.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := sink.SetVariable(host.Name, k, host.Vars[k]); err != nil {
			return err
		}
	}

	for _, g := range host.Groups {
		if err := sink.AddGroup(g); err != nil {
			return err
		}
		if err := sink.AddHost(host.Name, g); err != nil {
			return err
		}
	}
	return nil
}
