// Copyright IBM Corp. 2024, 2025
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/yandex-cloud/go-genproto/yandex/cloud/compute/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// defaultPageSize is the largest page the Compute API returns.
const defaultPageSize = 1000

// InstancesAPI is the part of the Compute instance service the inventory
// uses. Both the SDK client and the generated gRPC client satisfy it.
type InstancesAPI interface {
	List(ctx context.Context, in *compute.ListInstancesRequest, opts ...grpc.CallOption) (*compute.ListInstancesResponse, error)
}

// hostEntry is an instance mapped onto the inventory.
type hostEntry struct {
	Name    string
	Address string
	Vars    map[string]string
	Groups  []string
}

func getInstances(ctx context.Context, instancesClient InstancesAPI, folderId string) ([]*compute.Instance, error) {
	instances := []*compute.Instance{}
	request := &compute.ListInstancesRequest{
		FolderId: folderId,
		PageSize: defaultPageSize,
	}
	for {
		resp, err := instancesClient.List(ctx, request)
		if err != nil {
			return nil, status.Errorf(codes.Unknown, "error listing instances: %s", err)
		}
		instances = append(instances, resp.GetInstances()...)

		if resp.GetNextPageToken() == "" {
			break
		}
		request.PageToken = resp.GetNextPageToken()
	}
	return instances, nil
}

// instanceToHost maps one instance. A nil entry without error means the
// instance opted out through its labels.
func instanceToHost(instance *compute.Instance, group string) (*hostEntry, error) {
	if instance.GetName() == "" {
		return nil, errors.New("response integrity error: missing instance name")
	}

	labels := make(map[string]string, len(instance.GetLabels()))
	for k, v := range instance.GetLabels() {
		labels[normalize(k)] = normalize(v)
	}

	if labels[labelAnsible] == "false" {
		return nil, nil
	}

	internalIP, externalIP := instanceAddresses(instance)

	result := &hostEntry{
		Name:    normalize(instance.GetName()),
		Address: internalIP,
		Vars:    make(map[string]string, len(labels)+4),
	}
	if result.Address == "" {
		result.Address = externalIP
	}

	setIfNotEmpty(result.Vars, varAnsibleHost, result.Address)
	result.Vars[varName] = instance.GetName()
	setIfNotEmpty(result.Vars, varIPv4, externalIP)
	setIfNotEmpty(result.Vars, varPrivateIPv4, internalIP)

	// Labels are applied last and win over the variables above.
	for k, v := range labels {
		result.Vars[k] = v
	}

	result.Groups = appendDistinct(result.Groups, normalize(instance.GetZoneId()), labels[labelAnsibleGroup], group)

	return result, nil
}

// instanceAddresses returns the internal and NAT IPv4 addresses of the first
// network interface. Either may be empty.
func instanceAddresses(instance *compute.Instance) (string, string) {
	ifaces := instance.GetNetworkInterfaces()
	if len(ifaces) == 0 {
		return "", ""
	}
	primary := ifaces[0].GetPrimaryV4Address()
	return primary.GetAddress(), primary.GetOneToOneNat().GetAddress()
}

// normalize makes names usable as Ansible identifiers.
func normalize(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}

func setIfNotEmpty(m map[string]string, k, v string) {
	if v != "" {
		m[k] = v
	}
}

// appendDistinct will append the elements to the slice
// if an element is not empty, and does not exist in slice.
func appendDistinct(slice []string, elems ...string) []string {
	for _, e := range elems {
		if e == "" || stringInSlice(slice, e) {
			continue
		}
		slice = append(slice, e)
	}
	return slice
}

func stringInSlice(s []string, x string) bool {
	for _, y := range s {
		if x == y {
			return true
		}
	}
	return false
}
