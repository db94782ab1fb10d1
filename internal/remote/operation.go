package remote

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/go-faster/errors"
	"github.com/studio-b12/gowebdav"
)

// Operation is a unit of work against the server, or against local state on
// the server's behalf. Execute never returns nil.
type Operation[T any] interface {
	Execute(ctx context.Context, c *Client) *Result[T]
}

type OperationFunc[T any] func(ctx context.Context, c *Client) *Result[T]

func (f OperationFunc[T]) Execute(ctx context.Context, c *Client) *Result[T] {
	return f(ctx, c)
}

const maxErrorBody = 64 << 10

// davStatus extracts the HTTP status gowebdav attaches to failed requests.
func davStatus(err error) (int, bool) {
	var pe *os.PathError
	if !errors.As(err, &pe) {
		return 0, false
	}
	se, ok := pe.Err.(gowebdav.StatusError)
	if !ok {
		return 0, false
	}
	return se.Status, true
}

func davFailure[T any](ctx context.Context, err error) *Result[T] {
	if ctx.Err() != nil {
		return FromError[T](ctx.Err())
	}
	if status, ok := davStatus(err); ok {
		return FromHTTPResponse[T](status, http.StatusText(status), nil)
	}
	return FromError[T](err)
}

// responseFailure drains a non-success response into a failed result.
func responseFailure[T any](resp *http.Response) *Result[T] {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return FromHTTPResponse[T](resp.StatusCode, http.StatusText(resp.StatusCode), body)
}

func requestFailure[T any](ctx context.Context, err error) *Result[T] {
	if ctx.Err() != nil && !errors.Is(err, ErrRedirectToNonSecure) {
		return FromError[T](ctx.Err())
	}
	return FromError[T](err)
}
