package describe

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

// Chain asks each describer in turn and returns the first describe found.
type Chain []metadata.Describer

var _ metadata.Describer = Chain(nil)

// DescribeObject implements metadata.Describer. Describers reporting
// ErrObjectNotFound are skipped; any other failure stops the chain.
func (c Chain) DescribeObject(ctx context.Context, objectType string) (metadata.ObjectDescribe, error) {
	for _, describer := range c {
		if describer == nil {
			continue
		}
		describe, err := describer.DescribeObject(ctx, objectType)
		if err == nil {
			return describe, nil
		}
		if !errors.Is(err, ErrObjectNotFound) {
			return metadata.ObjectDescribe{}, err
		}
	}
	return metadata.ObjectDescribe{}, fmt.Errorf("%w: %q", ErrObjectNotFound, objectType)
}
