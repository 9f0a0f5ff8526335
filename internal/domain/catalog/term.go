package catalog

import (
	"strings"

	"github.com/agency/planner/internal/domain/shared"
)

// ContractTerm is a reusable bilingual clause that contracts reference by id
type ContractTerm struct {
	shared.BaseAggregateRoot
	Key     string
	KeyAr   string
	Value   string
	ValueAr string
}

// NewContractTerm creates a term. Both keys are required.
func NewContractTerm(key, keyAr, value, valueAr string) (*ContractTerm, error) {
	t := &ContractTerm{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := t.Update(key, keyAr, value, valueAr); err != nil {
		return nil, err
	}
	t.Version = 1
	return t, nil
}

// Update replaces the term text
func (t *ContractTerm) Update(key, keyAr, value, valueAr string) error {
	key, keyAr = strings.TrimSpace(key), strings.TrimSpace(keyAr)
	if key == "" || keyAr == "" {
		return shared.NewValidationError("key", "english and arabic keys are required")
	}
	t.Key = key
	t.KeyAr = keyAr
	t.Value = strings.TrimSpace(value)
	t.ValueAr = strings.TrimSpace(valueAr)
	t.Touch()
	t.IncrementVersion()
	return nil
}
