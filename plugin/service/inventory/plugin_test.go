// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/ansible"
	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/credential"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
	"github.com/yandex-cloud/go-genproto/yandex/cloud/compute/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func writeInventoryFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVerifyFile(t *testing.T) {
	p := NewInventoryPlugin()
	cases := map[string]bool{
		"inventory/yandex_cloud.yml":  true,
		"inventory/yandex_cloud.yaml": true,
		"yc.yml":                      true,
		"inventory/hosts.ini":         false,
		"inventory/yandex_cloud.json": false,
		"inventory/yandex_cloud":      false,
	}
	for path, expected := range cases {
		require.Equal(t, expected, p.VerifyFile(path), path)
	}
	require.Equal(t, "yandex_cloud_inventory", p.Name())
}

func TestParse(t *testing.T) {
	ctx := context.Background()
	keyFile := credential.WriteTestKeyFile(t, credential.TestKeyJSON)
	missingKeyFile := filepath.Join(t.TempDir(), "missing.json")

	instances := []*compute.Instance{
		testInstance("web-1", "ru-central1-a", "10.0.0.5", "1.2.3.4", map[string]string{"role": "front-end"}),
		testInstance("web-2", "ru-central1-a", "10.0.0.6", "", nil),
		testInstance("db-1", "ru-central1-b", "", "1.2.3.9", map[string]string{"ansible-group": "db-servers"}),
		testInstance("build-agent", "ru-central1-c", "10.0.0.8", "", map[string]string{
			"ansible":       "false",
			"ansible_group": "ghosts",
		}),
	}

	cases := []struct {
		name            string
		file            string
		content         string
		env             map[string]string
		server          *testInstanceServer
		expectedErr     string
		expectedErrCode codes.Code
		expectedAuth    credential.AuthMethod
		verify          func(*require.Assertions, *ansible.Inventory)
	}{
		{
			name:            "unsupported file",
			file:            "yandex.json",
			content:         "{}",
			expectedErr:     "unsupported inventory file",
			expectedErrCode: codes.InvalidArgument,
		},
		{
			name:            "invalid yaml",
			file:            "yandex.yml",
			content:         "plugin: [unterminated",
			expectedErr:     "error parsing inventory file",
			expectedErrCode: codes.InvalidArgument,
		},
		{
			name:            "missing folder_id",
			file:            "yandex.yml",
			content:         "plugin: yandex_cloud_inventory\niam_token: t1.token\n",
			expectedErr:     "attributes.folder_id: missing required value \"folder_id\"",
			expectedErrCode: codes.InvalidArgument,
		},
		{
			name:            "no credentials anywhere",
			file:            "yandex.yml",
			content:         "plugin: yandex_cloud_inventory\nfolder_id: b1gfolder\n",
			expectedErr:     "must be provided",
			expectedErrCode: codes.InvalidArgument,
		},
		{
			name:            "key file does not exist",
			file:            "yandex.yaml",
			content:         fmt.Sprintf("plugin: yandex_cloud_inventory\nfolder_id: b1gfolder\nservice_account_key_file: %s\n", missingKeyFile),
			expectedErr:     "service account key file not found",
			expectedErrCode: codes.FailedPrecondition,
		},
		{
			name:    "key file wins over token",
			file:    "yandex.yml",
			content: fmt.Sprintf("plugin: yandex_cloud_inventory\nfolder_id: b1gfolder\niam_token: t1.token\nservice_account_key_file: %s\n", keyFile),
			env:     map[string]string{credential.EnvIAMToken: "t1.env"},
			server:  &testInstanceServer{},
			verify: func(require *require.Assertions, inv *ansible.Inventory) {
				require.Empty(inv.Hosts())
			},
			expectedAuth: credential.AuthMethodServiceAccountKey,
		},
		{
			name:         "environment token",
			file:         "yandex.yml",
			content:      "plugin: yandex_cloud_inventory\nfolder_id: b1gfolder\n",
			env:          map[string]string{credential.EnvIAMToken: "t1.env"},
			server:       &testInstanceServer{},
			expectedAuth: credential.AuthMethodEnvIAMToken,
		},
		{
			name:            "api failure leaves the inventory empty",
			file:            "yandex.yml",
			content:         "plugin: yandex_cloud_inventory\nfolder_id: b1gfolder\niam_token: t1.token\ngroup: yc\n",
			server:          &testInstanceServer{listErr: status.Error(codes.PermissionDenied, "permission denied")},
			expectedErr:     "error running list instances for folder \"b1gfolder\"",
			expectedErrCode: codes.Unknown,
			expectedAuth:    credential.AuthMethodIAMToken,
		},
		{
			name:    "integrity failure leaves the inventory empty",
			file:    "yandex.yml",
			content: "plugin: yandex_cloud_inventory\nfolder_id: b1gfolder\niam_token: t1.token\n",
			server: &testInstanceServer{pages: [][]*compute.Instance{
				{instances[0], {Id: "fhmnoname"}},
			}},
			expectedErr:     "response integrity error: missing instance name",
			expectedErrCode: codes.Internal,
			expectedAuth:    credential.AuthMethodIAMToken,
		},
		{
			name:         "full inventory",
			file:         "yandex.yml",
			content:      "plugin: yandex_cloud_inventory\nfolder_id: b1gfolder\niam_token: t1.token\ngroup: yc\n",
			server:       &testInstanceServer{pages: [][]*compute.Instance{instances[:2], instances[2:]}},
			expectedAuth: credential.AuthMethodIAMToken,
			verify: func(require *require.Assertions, inv *ansible.Inventory) {
				require.Equal([]string{"web_1", "web_2", "db_1"}, inv.Hosts())
				require.Equal([]string{"yc", "ru_central1_a", "ru_central1_b", "db_servers"}, inv.Groups())
				require.Equal([]string{"web_1", "web_2"}, inv.GroupHosts("ru_central1_a"))
				require.Equal([]string{"db_1"}, inv.GroupHosts("db_servers"))
				require.Equal([]string{"web_1", "web_2", "db_1"}, inv.GroupHosts("yc"))
				require.Nil(inv.GroupHosts("ghosts"))
				require.Nil(inv.GroupHosts("ru_central1_c"))

				require.Equal(map[string]string{
					"ansible_host": "10.0.0.5",
					"name":         "web-1",
					"ipv4":         "1.2.3.4",
					"private_ipv4": "10.0.0.5",
					"role":         "front_end",
				}, inv.HostVars("web_1"))
				require.Equal(map[string]string{
					"ansible_host":  "1.2.3.9",
					"name":          "db-1",
					"ipv4":          "1.2.3.9",
					"ansible_group": "db_servers",
				}, inv.HostVars("db_1"))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)

			server := tc.server
			if server == nil {
				server = &testInstanceServer{}
			}
			var auths []*credential.AuthContext
			p := newTestPlugin(t, server, &auths,
				WithLookupEnvFunc(credential.StaticEnv(tc.env)),
				WithLogger(hclog.NewNullLogger()),
			)

			inv := ansible.NewInventory()
			err := p.Parse(ctx, inv, writeInventoryFile(t, tc.file, tc.content))
			if tc.expectedErr != "" {
				require.ErrorContains(err, tc.expectedErr)
				require.Equal(tc.expectedErrCode, status.Code(err))
				require.Empty(inv.Hosts())
				require.Empty(inv.Groups())
				if tc.server == nil {
					require.Empty(server.Requests(), "no request may be sent when configuration is invalid")
					require.Empty(auths)
				}
				if tc.expectedAuth != credential.AuthMethodUnknown {
					require.Len(auths, 1)
					require.Equal(tc.expectedAuth, auths[0].Method)
				}
				return
			}

			require.NoError(err)
			require.Len(auths, 1)
			require.Equal(tc.expectedAuth, auths[0].Method)
			for _, req := range server.Requests() {
				require.Equal("b1gfolder", req.GetFolderId())
			}
			if tc.verify != nil {
				tc.verify(require, inv)
			}
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	p := NewInventoryPlugin(WithLookupEnvFunc(credential.NoEnv))
	err := p.Parse(context.Background(), ansible.NewInventory(), filepath.Join(t.TempDir(), "absent.yml"))
	require.ErrorContains(t, err, "error reading inventory file")
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestParseAttributesArguments(t *testing.T) {
	require := require.New(t)
	p := NewInventoryPlugin(WithLookupEnvFunc(credential.NoEnv))
	ctx := context.Background()

	err := p.ParseAttributes(ctx, nil, &structpb.Struct{})
	require.EqualError(err, status.Error(codes.InvalidArgument, "inventory sink is nil").Error())

	err = p.ParseAttributes(ctx, ansible.NewInventory(), nil)
	require.EqualError(err, status.Error(codes.InvalidArgument, "attributes are required").Error())
}

func TestParseZoneGroupCreatedOnce(t *testing.T) {
	require := require.New(t)
	server := &testInstanceServer{pages: [][]*compute.Instance{{
		testInstance("a-1", "ru-central1-a", "10.0.0.1", "", nil),
		testInstance("a-2", "ru-central1-a", "10.0.0.2", "", nil),
	}}}
	p := newTestPlugin(t, server, nil, WithLookupEnvFunc(credential.NoEnv))

	attrs, err := structpb.NewStruct(map[string]any{
		ConstPlugin:              PluginName,
		ConstFolderId:            "b1gfolder",
		credential.ConstIAMToken: "t1.token",
	})
	require.NoError(err)

	sink := &recordingSink{Inventory: ansible.NewInventory()}
	require.NoError(p.ParseAttributes(context.Background(), sink, attrs))

	require.Equal([]string{"ru_central1_a"}, sink.Groups())
	require.Equal([]string{"a_1", "a_2"}, sink.GroupHosts("ru_central1_a"))
	require.Equal(2, sink.addGroupCalls["ru_central1_a"])
}

func TestParseHostNameCollision(t *testing.T) {
	require := require.New(t)
	server := &testInstanceServer{pages: [][]*compute.Instance{{
		testInstance("web-1", "ru-central1-a", "10.0.0.5", "", map[string]string{"role": "db"}),
		testInstance("web_1", "ru-central1-b", "10.0.0.6", "", nil),
	}}}

	var logs bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{Output: &logs, Level: hclog.Warn})
	p := newTestPlugin(t, server, nil, WithLookupEnvFunc(credential.NoEnv), WithLogger(logger))

	attrs, err := structpb.NewStruct(map[string]any{
		ConstPlugin:              PluginName,
		ConstFolderId:            "b1gfolder",
		credential.ConstIAMToken: "t1.token",
	})
	require.NoError(err)

	inv := ansible.NewInventory()
	require.NoError(p.ParseAttributes(context.Background(), inv, attrs))

	require.Equal([]string{"web_1"}, inv.Hosts())
	require.Equal([]string{"ru_central1_a", "ru_central1_b"}, inv.HostGroups("web_1"))
	require.Contains(logs.String(), "host name collision after normalization")
	require.Contains(logs.String(), "previous_instance=web-1")
	require.Equal(1, bytes.Count(logs.Bytes(), []byte("collision")))
}

// recordingSink counts AddGroup calls on top of an Inventory.
type recordingSink struct {
	*ansible.Inventory
	addGroupCalls map[string]int
}

func (s *recordingSink) AddGroup(name string) error {
	if s.addGroupCalls == nil {
		s.addGroupCalls = make(map[string]int)
	}
	s.addGroupCalls[name]++
	return s.Inventory.AddGroup(name)
}
