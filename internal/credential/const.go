// Copyright IBM Corp. 2024, 2025
// SPDX-License-Identifier: MPL-2.0

package credential

const (
	// ConstServiceAccountKeyFile defines the attribute name for the path to a
	// Yandex Cloud service account authorized key in JSON format
	ConstServiceAccountKeyFile = "service_account_key_file"

	// ConstIAMToken defines the attribute name for an IAM token
	ConstIAMToken = "iam_token"

	// EnvIAMToken is the environment variable consulted for an IAM token when
	// neither ConstServiceAccountKeyFile nor ConstIAMToken is configured.
	EnvIAMToken = "YC_IAM_TOKEN"
)
