// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

import (
	"fmt"

	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/errors"
	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/values"
	"google.golang.org/protobuf/types/known/structpb"
)

// CredentialAttributes contain the inventory attributes used for
// authenticating to Yandex Cloud
type CredentialAttributes struct {
	ServiceAccountKeyFile string
	IAMToken              string
}

// GetCredentialAttributes reads the optional credential attributes. Whether
// any usable credential exists is decided later by Config.Resolve, which also
// consults the environment.
func GetCredentialAttributes(in *structpb.Struct) (*CredentialAttributes, error) {
	badFields := make(map[string]string)

	keyFile, err := values.GetStringValue(in, ConstServiceAccountKeyFile, false)
	if err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstServiceAccountKeyFile)] = err.Error()
	}

	token, err := values.GetStringValue(in, ConstIAMToken, false)
	if err != nil {
		badFields[fmt.Sprintf("attributes.%s", ConstIAMToken)] = err.Error()
	}

	if len(badFields) > 0 {
		return nil, errors.InvalidArgumentError("Error in the attributes provided", badFields)
	}

	return &CredentialAttributes{
		ServiceAccountKeyFile: keyFile,
		IAMToken:              token,
	}, nil
}

// Config returns a credential Config built from the attributes.
func (a *CredentialAttributes) Config() *Config {
	return &Config{
		ServiceAccountKeyFile: a.ServiceAccountKeyFile,
		IAMToken:              a.IAMToken,
	}
}
