// Package proto adapts Protocol Buffers descriptors to the descriptor model.
package proto

import (
	"context"

	"github.com/bufbuild/protocompile"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Compile parses and links fnames like protoc does. importPaths are the
// directories to search imports in; well-known types are always available.
// The returned descriptors are in the same order as fnames.
func Compile(ctx context.Context, importPaths []string, fnames []string) ([]protoreflect.FileDescriptor, error) {
	c := &protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: importPaths,
		}),
	}
	compiled, err := c.Compile(ctx, fnames...)
	if err != nil {
		return nil, errors.Wrap(err, "proto: failed to compile proto files")
	}

	fds := make([]protoreflect.FileDescriptor, len(compiled))
	for i, f := range compiled {
		fds[i] = f
	}
	return fds, nil
}
