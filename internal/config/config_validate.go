// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the loaded configuration satisfies its struct
// tags (required fields, oneof enums, numeric bounds) and the
// sink-location rules from spec.md section 6.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	for _, sink := range c.Sinks {
		if sink.Location == "" {
			return fmt.Errorf("config: sink location must not be empty")
		}
	}

	return nil
}
