// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

import (
	"errors"
	"io/fs"
	"os"

	ycsdk "github.com/yandex-cloud/go-sdk"
	"github.com/yandex-cloud/go-sdk/iamkey"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// readKeyFileFn is a function variable that reads an authorized key file
var readKeyFileFn = iamkey.ReadFromJSONFile

// AuthMethod identifies where the credential of an AuthContext came from.
type AuthMethod int

const (
	AuthMethodUnknown AuthMethod = iota
	AuthMethodServiceAccountKey
	AuthMethodIAMToken
	AuthMethodEnvIAMToken
)

func (m AuthMethod) String() string {
	switch m {
	case AuthMethodServiceAccountKey:
		return "service_account_key"
	case AuthMethodIAMToken:
		return "iam_token"
	case AuthMethodEnvIAMToken:
		return "env_iam_token"
	default:
		return "unknown"
	}
}

// AuthContext is the single authentication source selected by Resolve.
// Key is set for AuthMethodServiceAccountKey, Token for the token methods.
type AuthContext struct {
	Method  AuthMethod
	KeyFile string
	Key     *iamkey.Key
	Token   string
}

// Credentials converts the context into credentials for the Yandex Cloud SDK.
func (a *AuthContext) Credentials() (ycsdk.Credentials, error) {
	switch a.Method {
	case AuthMethodServiceAccountKey:
		if a.Key == nil {
			return nil, status.Error(codes.InvalidArgument, "service account key is not loaded")
		}
		creds, err := ycsdk.ServiceAccountKey(a.Key)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid service account key %s: %v", a.KeyFile, err)
		}
		return creds, nil
	case AuthMethodIAMToken, AuthMethodEnvIAMToken:
		if a.Token == "" {
			return nil, status.Error(codes.InvalidArgument, "iam token is empty")
		}
		return ycsdk.NewIAMTokenCredentials(a.Token), nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unsupported authentication method %q", a.Method)
	}
}

// Config is the configuration for the Yandex Cloud credential.
type Config struct {
	ServiceAccountKeyFile string
	IAMToken              string
}

// Resolve selects exactly one authentication source. The service account key
// file wins over an explicit IAM token, which wins over the YC_IAM_TOKEN
// environment variable. The key file, when selected, is read and parsed here.
func (c *Config) Resolve(opt ...Option) (*AuthContext, error) {
	opts, err := getOpts(opt...)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "error parsing credential options: %s", err)
	}

	switch {
	case c.ServiceAccountKeyFile != "":
		return c.authFromKeyFile()
	case c.IAMToken != "":
		return &AuthContext{
			Method: AuthMethodIAMToken,
			Token:  c.IAMToken,
		}, nil
	}

	if token, ok := opts.WithLookupEnvFunc(EnvIAMToken); ok && token != "" {
		return &AuthContext{
			Method: AuthMethodEnvIAMToken,
			Token:  token,
		}, nil
	}

	return nil, status.Errorf(codes.InvalidArgument,
		"either %q or %q must be provided, or %s must be set",
		ConstIAMToken, ConstServiceAccountKeyFile, EnvIAMToken)
}

// authFromKeyFile loads the service account key referenced by the config.
func (c *Config) authFromKeyFile() (*AuthContext, error) {
	info, err := os.Stat(c.ServiceAccountKeyFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, status.Errorf(codes.FailedPrecondition, "service account key file not found: %s", c.ServiceAccountKeyFile)
	case err != nil:
		return nil, status.Errorf(codes.FailedPrecondition, "error accessing service account key file %s: %v", c.ServiceAccountKeyFile, err)
	case info.IsDir():
		return nil, status.Errorf(codes.FailedPrecondition, "service account key file %s is a directory", c.ServiceAccountKeyFile)
	}

	key, err := readKeyFileFn(c.ServiceAccountKeyFile)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "error reading service account key file %s: %v", c.ServiceAccountKeyFile, err)
	}

	return &AuthContext{
		Method:  AuthMethodServiceAccountKey,
		KeyFile: c.ServiceAccountKeyFile,
		Key:     key,
	}, nil
}
