// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import cred "github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/credential"

const (
	// PluginName is the value the "plugin" key of an inventory file must hold
	PluginName = "yandex_cloud_inventory"

	// ConstPlugin refers to the attribute naming the inventory plugin
	ConstPlugin = "plugin"

	// ConstFolderId refers to the Yandex Cloud folder to list instances from
	ConstFolderId = "folder_id"

	// ConstGroup refers to a group every host is added to
	ConstGroup = "group"
)

const (
	labelAnsible      = "ansible"
	labelAnsibleGroup = "ansible_group"

	varAnsibleHost = "ansible_host"
	varName        = "name"
	varIPv4        = "ipv4"
	varPrivateIPv4 = "private_ipv4"
)

var allowedFields = map[string]struct{}{
	ConstPlugin:                     {},
	ConstFolderId:                   {},
	ConstGroup:                      {},
	cred.ConstServiceAccountKeyFile: {},
	cred.ConstIAMToken:              {},
}
