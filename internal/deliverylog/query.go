package deliverylog

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// ValidateQuery reports whether expr is a syntactically valid JMESPath expression.
func ValidateQuery(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	return nil
}

// Query evaluates a JMESPath expression against the JSON form of the reports.
// An empty expression returns the reports unchanged.
func Query(reports []model.DeliveryReport, expr string) (any, error) {
	if strings.TrimSpace(expr) == "" {
		return reports, nil
	}
	if err := ValidateQuery(expr); err != nil {
		return nil, err
	}

	data, err := json.Marshal(reports)
	if err != nil {
		return nil, fmt.Errorf("encode delivery log: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode delivery log: %w", err)
	}

	result, err := jmespath.Search(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluate query: %w", err)
	}
	return result, nil
}
