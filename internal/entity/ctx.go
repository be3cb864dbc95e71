package entity

import (
	"context"
)

type CtxKey int

const (
	CtxKeySubject CtxKey = iota
)

func CtxWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, CtxKeySubject, subject)
}

// SubjectFromCtx returns the authenticated API caller or ErrUnauthenticated if there is none.
func SubjectFromCtx(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(CtxKeySubject).(string)
	if !ok || subject == "" {
		return "", ErrUnauthenticated
	}

	return subject, nil
}
