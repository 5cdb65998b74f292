// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package errors builds gRPC status errors for inventory configuration
// problems.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InvalidArgumentError returns an InvalidArgument status error. Each entry of
// badFields is rendered into the message as "field: reason", sorted by field,
// and attached to the status as a BadRequest field violation.
func InvalidArgumentError(msg string, badFields map[string]string) error {
	fields := make([]string, 0, len(badFields))
	for field := range badFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	violations := make([]*errdetails.BadRequest_FieldViolation, 0, len(fields))
	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, badFields[field]))
		violations = append(violations, &errdetails.BadRequest_FieldViolation{
			Field:       field,
			Description: badFields[field],
		})
	}
	if len(msgs) > 0 {
		msg = fmt.Sprintf("%s: [%s]", msg, strings.Join(msgs, ", "))
	}

	st := status.New(codes.InvalidArgument, msg)
	withDetails, err := st.WithDetails(&errdetails.BadRequest{FieldViolations: violations})
	if err != nil {
		// Details could not be marshaled, the message still carries every field.
		return st.Err()
	}
	return withDetails.Err()
}

// FieldViolations returns the field -> reason pairs attached to err by
// InvalidArgumentError. It returns nil when err carries no such details.
func FieldViolations(err error) map[string]string {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	var out map[string]string
	for _, d := range st.Details() {
		br, ok := d.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		for _, v := range br.GetFieldViolations() {
			if out == nil {
				out = make(map[string]string)
			}
			out[v.GetField()] = v.GetDescription()
		}
	}
	return out
}
