package engine

import (
	"context"
	"io"
)

type Closer interface {
	Close(context.Context) error
}

// Sink is a destination a finished archive is published to.
type Sink interface {
	Named
	Closer
	Write(ctx context.Context, path string, data io.Reader) error
}
