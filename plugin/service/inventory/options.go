// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

type options struct {
	withLogger        hclog.Logger
	withLookupEnvFunc func(string) (string, bool)
}

// Option - how options are passed as arguments
type Option func(*options)

func getOpts(opt ...Option) *options {
	opts := &options{
		withLogger:        hclog.NewNullLogger(),
		withLookupEnvFunc: os.LookupEnv,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.withLogger = l
		}
	}
}

// WithLookupEnvFunc replaces os.LookupEnv for the YC_IAM_TOKEN fallback.
func WithLookupEnvFunc(fn func(string) (string, bool)) Option {
	return func(o *options) {
		if fn != nil {
			o.withLookupEnvFunc = fn
		}
	}
}
