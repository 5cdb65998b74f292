// Copyright IBM Corp. 2024, 2025
// SPDX-License-Identifier: MPL-2.0

// Package inventory provides an Ansible dynamic inventory that retrieves
// virtual machine instances from Yandex Cloud Compute.
//
// The inventory is configured with a YAML file whose "plugin" key must be
// "yandex_cloud_inventory". Only files ending in yml or yaml are accepted.
// Recognized keys are folder_id (required), group, service_account_key_file
// and iam_token.
//
// Authentication uses a service account authorized key file, an IAM token from
// the configuration, or the YC_IAM_TOKEN environment variable, in that order
// of precedence.
//
// Every instance of the folder becomes a host named after the instance, with
// "-" replaced by "_". The same replacement is applied to zone ids and to all
// label keys and values. Each host is added to a group named after its zone,
// to the group named by its "ansible_group" label, and to the configured
// group. Instances labelled ansible=false are left out of the inventory.
//
// # Variables
//
//	ansible_host  internal address of the first interface, else its NAT address
//	name          instance name as reported by the API
//	ipv4          NAT address of the first interface
//	private_ipv4  internal address of the first interface
//
// Every label is set as a host variable as well and overrides the variables
// above on a name clash.
package inventory
