package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/timecard-backend-go/internal/domain/timecard"
	"gopkg.in/yaml.v3"
)

// Policy is the on-disk override for timecard thresholds and the pay schedule.
// Keys absent from the file keep their built-in defaults.
type Policy struct {
	Timecard timecard.Policy  `yaml:"timecard"`
	Payroll  payroll.Schedule `yaml:"payroll"`
}

func DefaultPolicy() Policy {
	return Policy{
		Timecard: timecard.DefaultPolicy(),
		Payroll:  payroll.DefaultSchedule(),
	}
}

// LoadPolicy reads path over the defaults. An empty path returns the defaults.
func LoadPolicy(path string) (Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}

	return ParsePolicy(raw)
}

// ParsePolicy decodes raw YAML over the defaults and validates the result.
func ParsePolicy(raw []byte) (Policy, error) {
	policy := DefaultPolicy()

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&policy); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("parse policy file: %w", err)
	}

	if err := policy.Timecard.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid timecard policy: %w", err)
	}
	if err := policy.Payroll.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid payroll schedule: %w", err)
	}

	return policy, nil
}
