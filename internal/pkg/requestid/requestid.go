// requestid хранит X-Request-Id входящего запроса в контексте,
// чтобы исходящие вызовы к апстриму несли тот же идентификатор.
package requestid

import "context"

// Header — имя заголовка идентификатора запроса.
const Header = "X-Request-Id"

type ctxKey struct{}

func Into(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From возвращает идентификатор или пустую строку.
func From(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
