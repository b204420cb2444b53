package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// ErrDuplicateNodeID is returned when two nodes share an id
	ErrDuplicateNodeID = errors.New("duplicate node id")

	// Validation limits
	MaxNodes        = 10000
	MaxEdges        = 100000
	MaxAttacks      = 10000
	MaxMetadataKeys = 100
	MaxMetadataKey  = 100
)

func init() {
	validate = validator.New()
	// report fields by their wire names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// DataRequest is the body of a graph and attack upload
type DataRequest struct {
	Graph   topology.Graph    `json:"graph"`
	Attacks []topology.Attack `json:"attacks" validate:"dive"`
}

// ValidateGraph checks a topology before it is handed to the session.
// Edges may reference unknown nodes; they are skipped at draw time.
func ValidateGraph(g *topology.Graph) error {
	if g == nil {
		return errors.New("graph cannot be nil")
	}

	if len(g.Nodes) > MaxNodes {
		return fmt.Errorf("nodes: maximum %d nodes allowed, got %d", MaxNodes, len(g.Nodes))
	}
	if len(g.Edges) > MaxEdges {
		return fmt.Errorf("edges: maximum %d edges allowed, got %d", MaxEdges, len(g.Edges))
	}

	if err := validate.Struct(g); err != nil {
		return formatValidationError(err)
	}

	seen := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if first, ok := seen[n.ID]; ok {
			return fmt.Errorf("nodes[%d]: %w %q (first at nodes[%d])", i, ErrDuplicateNodeID, n.ID, first)
		}
		seen[n.ID] = i

		if err := validateMetadata(n.Metadata); err != nil {
			return fmt.Errorf("nodes[%d].metadata: %w", i, err)
		}
	}

	return nil
}

// ValidateAttacks checks attack records. Type, severity and confidence
// are deliberately left alone: unknown categories fall back to defaults
// when scored.
func ValidateAttacks(attacks []topology.Attack) error {
	if len(attacks) > MaxAttacks {
		return fmt.Errorf("attacks: maximum %d attacks allowed, got %d", MaxAttacks, len(attacks))
	}

	for i := range attacks {
		if err := validate.Struct(&attacks[i]); err != nil {
			return fmt.Errorf("attacks[%d]: %w", i, formatValidationError(err))
		}
	}
	return nil
}

// ValidateDataRequest validates an upload body
func ValidateDataRequest(req *DataRequest) error {
	if req == nil {
		return errors.New("data request cannot be nil")
	}
	if err := ValidateGraph(&req.Graph); err != nil {
		return err
	}
	return ValidateAttacks(req.Attacks)
}

func validateMetadata(md map[string]any) error {
	if len(md) > MaxMetadataKeys {
		return fmt.Errorf("maximum %d keys allowed, got %d", MaxMetadataKeys, len(md))
	}
	for key := range md {
		if key == "" {
			return errors.New("key cannot be empty")
		}
		if len(key) > MaxMetadataKey {
			return fmt.Errorf("key '%s' exceeds maximum length of %d characters", key, MaxMetadataKey)
		}
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "ip":
			return fmt.Errorf("%s: must be a valid IP address", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}
