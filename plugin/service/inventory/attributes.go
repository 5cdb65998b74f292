// Copyright IBM Corp. 2024, 2025
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"fmt"

	cred "github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/credential"
	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/errors"
	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/values"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// InventoryAttributes defines the attributes of an inventory file
type InventoryAttributes struct {
	*cred.CredentialAttributes `mapstructure:"-"`

	Plugin   string `mapstructure:"plugin"`
	FolderId string `mapstructure:"folder_id"`
	Group    string `mapstructure:"group"`
}

func getInventoryAttributes(in *structpb.Struct) (*InventoryAttributes, error) {
	unknownFields := values.StructFields(in)
	badFields := make(map[string]string)

	credAttributes, err := cred.GetCredentialAttributes(in)
	if err != nil {
		return nil, err
	}

	plugin, err := values.GetStringValue(in, ConstPlugin, true)
	switch {
	case err != nil:
		badFields[fmt.Sprintf("attributes.%s", ConstPlugin)] = err.Error()
	case plugin != PluginName:
		badFields[fmt.Sprintf("attributes.%s", ConstPlugin)] = fmt.Sprintf("must be %q", PluginName)
	}

	if _, err := values.GetStringValue(in, ConstFolderId, true); err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstFolderId)] = err.Error()
	}

	if _, err := values.GetStringValue(in, ConstGroup, false); err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstGroup)] = err.Error()
	}

	for s := range unknownFields {
		if _, ok := allowedFields[s]; !ok {
			badFields[fmt.Sprintf("attributes.%s", s)] = "unrecognized field"
		}
	}

	if len(badFields) > 0 {
		return nil, errors.InvalidArgumentError("Invalid arguments in inventory attributes", badFields)
	}

	attrs := &InventoryAttributes{CredentialAttributes: credAttributes}
	if err := mapstructure.Decode(in.AsMap(), attrs); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "error decoding inventory attributes: %s", err)
	}

	return attrs, nil
}
