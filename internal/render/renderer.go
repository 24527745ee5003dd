package render

import "context"

type Renderer interface {
	RenderList(ctx context.Context, page ListPage) ([]byte, error)
	RenderItem(ctx context.Context, page ItemPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
