// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/credential"
	"github.com/yandex-cloud/go-genproto/yandex/cloud/compute/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"
)

// testInstanceServer serves pages of instances. Page tokens are page indexes.
type testInstanceServer struct {
	compute.UnimplementedInstanceServiceServer

	pages   [][]*compute.Instance
	listErr error

	mu       sync.Mutex
	requests []*compute.ListInstancesRequest
}

func (s *testInstanceServer) List(ctx context.Context, req *compute.ListInstancesRequest) (*compute.ListInstancesResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, proto.Clone(req).(*compute.ListInstancesRequest))
	s.mu.Unlock()

	if s.listErr != nil {
		return nil, s.listErr
	}

	page := 0
	if req.GetPageToken() != "" {
		var err error
		page, err = strconv.Atoi(req.GetPageToken())
		if err != nil {
			return nil, err
		}
	}
	if page >= len(s.pages) {
		return &compute.ListInstancesResponse{}, nil
	}

	resp := &compute.ListInstancesResponse{Instances: s.pages[page]}
	if page+1 < len(s.pages) {
		resp.NextPageToken = strconv.Itoa(page + 1)
	}
	return resp, nil
}

func (s *testInstanceServer) Requests() []*compute.ListInstancesRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*compute.ListInstancesRequest(nil), s.requests...)
}

// newTestInstancesClient starts srv on a local port and returns a client
// connected to it. Both are stopped when the test ends.
func newTestInstancesClient(t testing.TB, srv *testInstanceServer) InstancesAPI {
	t.Helper()

	s := grpc.NewServer()
	compute.RegisterInstanceServiceServer(s, srv)

	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go func() {
		_ = s.Serve(l)
	}()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient(l.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial test server: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return compute.NewInstanceServiceClient(conn)
}

// newTestPlugin returns a plugin whose instance listing is served by srv.
// Every AuthContext handed to the client factory is recorded in auths.
func newTestPlugin(t testing.TB, srv *testInstanceServer, auths *[]*credential.AuthContext, opt ...Option) *InventoryPlugin {
	t.Helper()
	client := newTestInstancesClient(t, srv)

	p := NewInventoryPlugin(opt...)
	p.testStateOpts = []inventoryStateOption{
		withTestInstancesAPIFunc(func(a *credential.AuthContext) (InstancesAPI, error) {
			if auths != nil {
				*auths = append(*auths, a)
			}
			return client, nil
		}),
	}
	return p
}

// testInstance builds an instance with one network interface. Empty
// addresses are left out.
func testInstance(name, zone, internalIP, natIP string, labels map[string]string) *compute.Instance {
	instance := &compute.Instance{
		Id:     "fhm" + name,
		Name:   name,
		ZoneId: zone,
		Labels: labels,
	}

	primary := &compute.PrimaryAddress{Address: internalIP}
	if natIP != "" {
		primary.OneToOneNat = &compute.OneToOneNat{Address: natIP}
	}
	instance.NetworkInterfaces = []*compute.NetworkInterface{
		{Index: "0", PrimaryV4Address: primary},
	}
	return instance
}
