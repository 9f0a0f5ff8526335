// Package bulk runs a create operation over a batch of requests, keeping
// every item that succeeds and reporting every item that fails.
package bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/agency/planner/internal/domain/shared"
)

// MaxItems caps the size of one batch
const MaxItems = 50

// Failure describes one rejected item
type Failure struct {
	Index int    `json:"index"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Result reports the outcome of a batch. Successful keeps input order.
type Result[T any] struct {
	Successful     []T       `json:"successful"`
	Failed         []Failure `json:"failed"`
	TotalProcessed int       `json:"total_processed"`
}

// Run calls create for each request in order. Items are independent: a
// failing item does not stop or undo the others. Only an invalid batch or a
// cancelled context fails the whole call.
func Run[Req, Resp any](ctx context.Context, reqs []Req, create func(context.Context, Req) (*Resp, error)) (*Result[Resp], error) {
	if len(reqs) == 0 {
		return nil, shared.NewValidationError("items", "at least one item is required")
	}
	if len(reqs) > MaxItems {
		return nil, shared.NewValidationError("items", fmt.Sprintf("at most %d items per batch", MaxItems))
	}

	result := &Result[Resp]{Successful: []Resp{}, Failed: []Failure{}}
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := create(ctx, req)
		result.TotalProcessed++
		if err != nil {
			result.Failed = append(result.Failed, failureOf(i, err))
			continue
		}
		result.Successful = append(result.Successful, *resp)
	}
	return result, nil
}

func failureOf(index int, err error) Failure {
	// storage details stay out of responses
	if errors.Is(err, shared.ErrStorage) {
		return Failure{Index: index, Code: shared.ErrStorage.Code, Error: shared.ErrStorage.Message}
	}
	code := shared.ErrInvalidInput.Code
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
	}
	return Failure{Index: index, Code: code, Error: err.Error()}
}
