package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthUseCase_Login(t *testing.T) {
	tests := []struct {
		name         string
		from         string
		wantRedirect string
	}{
		{name: "back to from", from: "/products/42", wantRedirect: "/products/42"},
		{name: "default", from: "", wantRedirect: "/products"},
		{name: "external from ignored", from: "https://evil.example", wantRedirect: "/products"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			auth := usecase.NewAuthUC(f.api, f.session, f.cache, f.feed, logger.Nop{})

			f.api.EXPECT().Login(gomock.Any(), domain.LoginReq{Email: "admin@example.com"}).
				Return(&domain.LoginRes{Token: "tok"}, nil)

			res, err := auth.Login(context.Background(), " admin@example.com ", tt.from)
			require.NoError(t, err)
			assert.Equal(t, "tok", res.Token)
			assert.Equal(t, tt.wantRedirect, res.Redirect)

			token, ok := f.session.CurrentToken()
			assert.True(t, ok)
			assert.Equal(t, "tok", token)
			assert.True(t, auth.IsAuthenticated())
			assert.Equal(t, []string{"Logged in"}, messages(f.feed))
		})
	}
}

func TestAuthUseCase_LoginFailures(t *testing.T) {
	t.Run("invalid email makes no request", func(t *testing.T) {
		f := newFixture(t)
		auth := usecase.NewAuthUC(f.api, f.session, f.cache, f.feed, logger.Nop{})

		_, err := auth.Login(context.Background(), "not-an-email", "")
		assert.True(t, e.IsValidation(err))
		assert.False(t, auth.IsAuthenticated())
	})

	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t)
		auth := usecase.NewAuthUC(f.api, f.session, f.cache, f.feed, logger.Nop{})
		f.api.EXPECT().Login(gomock.Any(), gomock.Any()).Return(&domain.LoginRes{}, nil)

		_, err := auth.Login(context.Background(), "admin@example.com", "")
		assert.ErrorIs(t, err, e.ErrLoginFailed)
		assert.Equal(t, []string{"Login failed"}, messages(f.feed))
	})

	t.Run("network error", func(t *testing.T) {
		f := newFixture(t)
		auth := usecase.NewAuthUC(f.api, f.session, f.cache, f.feed, logger.Nop{})
		f.api.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, e.NewNetworkError("POST", errors.New("dial tcp: connection refused")))

		_, err := auth.Login(context.Background(), "admin@example.com", "")
		assert.True(t, e.IsNetwork(err))
		assert.Equal(t, []string{"Network error"}, messages(f.feed))
	})
}

func TestAuthUseCase_LogoutClearsSessionAndCache(t *testing.T) {
	f := newFixture(t)
	auth := usecase.NewAuthUC(f.api, f.session, f.cache, f.feed, logger.Nop{})
	ctx := context.Background()

	require.NoError(t, f.session.SetToken("tok"))
	f.api.EXPECT().ListCategories(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]domain.Category{}, nil).
		Times(2)

	f.products.ListCategories(ctx, domain.ListCategoriesReq{})
	require.NoError(t, auth.Logout(ctx))

	assert.False(t, auth.IsAuthenticated())
	f.products.ListCategories(ctx, domain.ListCategoriesReq{})
}

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"":                "/products",
		"/products/9":     "/products/9",
		"/products?p=2":   "/products?p=2",
		"//evil.com":      "/products",
		"/\\evil.com":     "/products",
		"http://evil.com": "/products",
		"/login":          "/products",
	}
	for from, want := range cases {
		assert.Equal(t, want, usecase.SafeRedirect(from), from)
	}
}
