// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package testing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/internal/credential"
	"github.com/ansible-yandex-cloud/yandex-cloud-inventory/plugin/service/inventory"
	"gopkg.in/yaml.v3"
)

const (
	// EnvFolderId names the folder the live tests list.
	EnvFolderId = "YC_FOLDER_ID"

	// EnvServiceAccountKeyFile points the live tests at an authorized key.
	EnvServiceAccountKeyFile = "YC_SERVICE_ACCOUNT_KEY_FILE"
)

// LiveConfig is the environment of a live test run.
type LiveConfig struct {
	FolderId              string
	ServiceAccountKeyFile string
	IAMToken              string
}

// LiveConfigFromEnv reads the live test environment. An error means the
// live tests should be skipped.
func LiveConfigFromEnv() (*LiveConfig, error) {
	c := &LiveConfig{
		FolderId:              os.Getenv(EnvFolderId),
		ServiceAccountKeyFile: os.Getenv(EnvServiceAccountKeyFile),
		IAMToken:              os.Getenv(credential.EnvIAMToken),
	}
	if c.FolderId == "" {
		return nil, fmt.Errorf("set %s to use this test", EnvFolderId)
	}
	if c.ServiceAccountKeyFile == "" && c.IAMToken == "" {
		return nil, fmt.Errorf("set %s or %s to use this test", EnvServiceAccountKeyFile, credential.EnvIAMToken)
	}
	return c, nil
}

// WriteInventoryFile writes an inventory configuration for c into dir. The
// IAM token is not written; the plugin picks it up from the environment.
func (c *LiveConfig) WriteInventoryFile(dir, group string) (string, error) {
	if dir == "" {
		return "", errors.New("dir is empty")
	}

	doc := map[string]string{
		inventory.ConstPlugin:   inventory.PluginName,
		inventory.ConstFolderId: c.FolderId,
	}
	if group != "" {
		doc[inventory.ConstGroup] = group
	}
	if c.ServiceAccountKeyFile != "" {
		doc[credential.ConstServiceAccountKeyFile] = c.ServiceAccountKeyFile
	}

	b, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error encoding inventory file: %w", err)
	}

	path := filepath.Join(dir, "yandex_cloud.yml")
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return "", fmt.Errorf("error writing inventory file: %w", err)
	}
	return path, nil
}

// Normalized reports whether s is free of characters the inventory replaces.
func Normalized(s string) bool {
	return !strings.Contains(s, "-")
}
