package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/bills/internal/service"
)

func TestForms(t *testing.T) {
	t.Parallel()

	forms := service.NewForms(service.Deps{})

	current := forms.Current("a@test.tld")
	require.Same(t, current, forms.Current("a@test.tld"))
	require.NotSame(t, current, forms.Current("b@test.tld"))

	opened := forms.Open("a@test.tld")
	require.NotSame(t, current, opened)
	require.Same(t, opened, forms.Current("a@test.tld"))
	require.Equal(t, service.FormStateDrafting, opened.State())

	forms.Close("a@test.tld")
	require.NotSame(t, opened, forms.Current("a@test.tld"))
}
