// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/credential"
	ycsdk "github.com/yandex-cloud/go-sdk"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// buildSDKFn is a function variable that builds the Yandex Cloud SDK
var buildSDKFn = ycsdk.Build

type inventoryState struct {
	// auth is the resolved authentication source
	auth *credential.AuthContext

	// testInstancesAPIFunc replaces the SDK client in tests
	testInstancesAPIFunc func(*credential.AuthContext) (InstancesAPI, error)
}

type inventoryStateOption func(s *inventoryState) error

func withAuth(x *credential.AuthContext) inventoryStateOption {
	return func(s *inventoryState) error {
		if s.auth != nil {
			return errors.New("authentication already set")
		}

		s.auth = x
		return nil
	}
}

func withTestInstancesAPIFunc(fn func(*credential.AuthContext) (InstancesAPI, error)) inventoryStateOption {
	return func(s *inventoryState) error {
		s.testInstancesAPIFunc = fn
		return nil
	}
}

func newInventoryState(opts ...inventoryStateOption) (*inventoryState, error) {
	s := new(inventoryState)
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// InstancesClient returns an instances client authenticated with the state's
// credentials, and a function releasing the underlying SDK connections.
func (s *inventoryState) InstancesClient(
	ctx context.Context,
	opts ...grpc.DialOption,
) (InstancesAPI, func(context.Context) error, error) {
	if s.auth == nil {
		return nil, nil, status.Error(codes.InvalidArgument, "authentication is required")
	}

	if s.testInstancesAPIFunc != nil {
		client, err := s.testInstancesAPIFunc(s.auth)
		if err != nil {
			return nil, nil, status.Errorf(codes.Internal, "failed to initialize Yandex Cloud SDK: %s", err)
		}
		return client, func(context.Context) error { return nil }, nil
	}

	creds, err := s.auth.Credentials()
	if err != nil {
		return nil, nil, err
	}

	sdk, err := buildSDKFn(ctx, ycsdk.Config{Credentials: creds}, opts...)
	if err != nil {
		return nil, nil, status.Errorf(codes.Internal, "failed to initialize Yandex Cloud SDK: %s", err)
	}

	shutdown := func(ctx context.Context) error {
		if err := sdk.Shutdown(ctx); err != nil {
			return fmt.Errorf("error shutting down Yandex Cloud SDK: %w", err)
		}
		return nil
	}

	return sdk.Compute().Instance(), shutdown, nil
}
