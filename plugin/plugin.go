// Copyright IBM Corp. 2024, 2025
// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"

	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/ansible"
	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/plugin/service/inventory"
)

// InventoryParser is the contract an Ansible inventory source implements:
// accept or reject a configuration file, then fill a sink from it.
type InventoryParser interface {
	Name() string
	VerifyFile(path string) bool
	Parse(ctx context.Context, sink ansible.Sink, path string) error
}

// Ensure that InventoryPlugin implements the following services:
//
//	InventoryParser
var (
	_ InventoryParser = (*inventory.InventoryPlugin)(nil)
)

// YandexCloudPlugin contains a collection of all Yandex Cloud plugin services.
type YandexCloudPlugin struct {
	// InventoryPlugin implements the InventoryParser interface for
	// dynamically sourcing hosts from Yandex Cloud Compute.
	*inventory.InventoryPlugin
}

func NewYandexCloudPlugin(opt ...inventory.Option) *YandexCloudPlugin {
	return &YandexCloudPlugin{
		InventoryPlugin: inventory.NewInventoryPlugin(opt...),
	}
}
