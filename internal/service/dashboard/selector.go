package dashboard

import (
	"strings"

	"github.com/facturaflow/dashboard/internal/pkg/validator"
)

// Selector names accepted by SelectorChanged
const (
	SelectorTimeRange = "timeRange"
	SelectorDocType   = "docTypeFilter"
)

func selectorMessage(name, label string) (string, error) {
	label = strings.TrimSpace(label)

	var errs validator.ValidationErrors
	if validator.IsEmpty(label) {
		errs = append(errs, validator.ValidationError{Field: "label", Message: "required"})
	}

	var prefix string
	switch name {
	case SelectorTimeRange:
		prefix = "Período cambiado a: "
	case SelectorDocType:
		prefix = "Filtro aplicado: "
	default:
		errs = append(errs, validator.ValidationError{Field: "name", Message: "unknown selector"})
	}

	if len(errs) > 0 {
		return "", errs
	}
	return prefix + label, nil
}
