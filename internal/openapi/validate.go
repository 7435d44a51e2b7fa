// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/apisynth/apisynth/pkg/types"
)

// Validate checks a generated document against the OpenAPI 3.0 rules.
// Synthesized examples are not checked against their schemas.
func Validate(ctx context.Context, doc *types.OpenAPI) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return ValidateData(ctx, data)
}

// ValidateData checks a serialized (JSON or YAML) document.
func ValidateData(ctx context.Context, data []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		var multi openapi3.MultiError
		if errors.As(err, &multi) && len(multi) > 0 {
			return fmt.Errorf("invalid document: %w", multi[0])
		}
		return fmt.Errorf("invalid document: %w", err)
	}
	return nil
}
