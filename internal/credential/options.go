// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package credential

import "os"

// options = how options are represented
type Options struct {
	WithLookupEnvFunc func(string) (string, bool)
}

// getOpts - iterate the inbound Options and return a struct
func getOpts(opts ...Option) (*Options, error) {
	defaultOptions := getDefaultOptions()
	for _, opt := range opts {
		if err := opt(defaultOptions); err != nil {
			return nil, err
		}
	}
	return defaultOptions, nil
}

// Option - how Options are passed as arguments
type Option func(*Options) error

func getDefaultOptions() *Options {
	return &Options{
		WithLookupEnvFunc: os.LookupEnv,
	}
}

// WithLookupEnvFunc replaces os.LookupEnv when resolving the environment
// token fallback.
func WithLookupEnvFunc(fn func(string) (string, bool)) Option {
	return func(o *Options) error {
		if fn != nil {
			o.WithLookupEnvFunc = fn
		}
		return nil
	}
}
