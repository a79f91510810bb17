// Package resolver maps dotted field paths onto field descriptors, following
// relationship hops across object types.
package resolver

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
)

const defaultConcurrency = 8

// Option customises a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report describe failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithConcurrency bounds the number of resolutions ResolveAll runs at once.
// Values below one disable the bound.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		r.concurrency = n
	}
}

// Resolver resolves field paths against a Describer.
type Resolver struct {
	describer   metadata.Describer
	logger      *slog.Logger
	concurrency int
}

// New constructs a Resolver. Wrap describer with describe.NewCache to avoid
// repeated describe calls across paths and render passes.
func New(describer metadata.Describer, options ...Option) *Resolver {
	r := &Resolver{
		describer:   describer,
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Resolved pairs a requested field path with its descriptor.
type Resolved struct {
	Path       string
	Descriptor metadata.FieldDescriptor
}

// Resolve returns the descriptor for path on objectType. Paths such as
// "Owner.Name" follow the reference field whose relationship name is "Owner"
// into its first target type. A missing relationship, missing field or failed
// describe yields ok == false; field-level security routinely hides fields, so
// absence is not an error.
func (r *Resolver) Resolve(ctx context.Context, objectType, path string) (metadata.FieldDescriptor, bool) {
	head, rest, nested := strings.Cut(path, ".")
	if head == "" {
		return metadata.FieldDescriptor{}, false
	}

	describe, err := r.describer.DescribeObject(ctx, objectType)
	if err != nil {
		r.logger.Warn("describe failed, treating field as unavailable",
			"object", objectType, "field", path, "error", err)
		return metadata.FieldDescriptor{}, false
	}

	if !nested {
		return describe.FieldByName(head)
	}

	ref, ok := describe.FieldByRelationship(head)
	if !ok || len(ref.ReferenceTo) == 0 {
		return metadata.FieldDescriptor{}, false
	}
	return r.Resolve(ctx, ref.ReferenceTo[0], rest)
}

// ResolveAll resolves every path concurrently and returns the resolvable ones
// in the order given. It returns only after every resolution has settled.
func (r *Resolver) ResolveAll(ctx context.Context, objectType string, paths []string) []Resolved {
	results := make([]*Resolved, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	if r.concurrency > 0 {
		group.SetLimit(r.concurrency)
	}
	for i, path := range paths {
		group.Go(func() error {
			descriptor, ok := r.Resolve(groupCtx, objectType, path)
			if !ok {
				r.logger.Debug("field not resolvable", "object", objectType, "field", path)
				return nil
			}
			results[i] = &Resolved{Path: path, Descriptor: descriptor}
			return nil
		})
	}
	_ = group.Wait()

	out := make([]Resolved, 0, len(results))
	for _, result := range results {
		if result != nil {
			out = append(out, *result)
		}
	}
	return out
}
