package service

import (
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/steamlens/steamlens/internal/domain/model"
	apperrors "github.com/steamlens/steamlens/internal/errors"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// ProjectionService narrows profile payloads with JMESPath expressions.
type ProjectionService struct {
	jems JMESPathEvaluator
}

// NewProjectionService constructs a ProjectionService. A nil evaluator uses go-jmespath.
func NewProjectionService(evaluator JMESPathEvaluator) *ProjectionService {
	if evaluator == nil {
		evaluator = jmespathLibEvaluator{}
	}
	return &ProjectionService{jems: evaluator}
}

// Project evaluates expr against the JSON form of profile.
// An empty expression returns the profile itself.
func (s *ProjectionService) Project(profile *model.Profile, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return profile, nil
	}
	if err := s.jems.Validate(expr); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid query")
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode profile document: %w", err)
	}

	out, err := s.jems.Evaluate(expr, doc)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid query")
	}
	return out, nil
}
