package entity

import (
	"context"
	"errors"
)

type (
	CtxKeyIP    struct{}
	CtxKeyToken struct{}
)

func SetTokenToContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CtxKeyToken{}, token)
}

func TokenFromContext(ctx context.Context) (string, error) {
	token, ok := ctx.Value(CtxKeyToken{}).(string)
	if !ok {
		return "", errors.New("data type casting")
	}

	return token, nil
}
