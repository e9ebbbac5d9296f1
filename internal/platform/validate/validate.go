// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// It is used by the service layer only: handlers pass raw input through and
// the catalog service decides what a valid asset name or upload is.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/taibuivan/smartimage/internal/platform/apperr"
)

// Validator collects failures in call order. It is not safe for concurrent
// use; create one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the value has more than max Unicode characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// ExcludesAny fails if the value contains any rune of chars.
func (v *Validator) ExcludesAny(field, value, chars string) *Validator {
	if strings.ContainsAny(value, chars) {
		quoted := make([]string, 0, len(chars))
		for _, char := range chars {
			quoted = append(quoted, fmt.Sprintf("%q", char))
		}
		v.add(field, "Must not contain "+strings.Join(quoted, ", "))
	}
	return v
}

// MaxBytes fails if size exceeds max. A non-positive max disables the rule.
func (v *Validator) MaxBytes(field string, size, max int64) *Validator {
	if max > 0 && size > max {
		v.add(field, "Must not exceed "+humanize.IBytes(uint64(max)))
	}
	return v
}

// OneOf fails if the value is not in the allowed set.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds message for field when failed is true.
//
//	v.Custom("delay", delay < 0, "Must not be negative")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a VALIDATION_ERROR carrying every failure, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
