package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/denote/internal/codec"
	"github.com/nfrund/denote/internal/database"
	"github.com/nfrund/denote/internal/domain"
	"github.com/nfrund/denote/internal/metrics"
	"github.com/nfrund/denote/internal/render"
	"github.com/nfrund/denote/internal/testutils"
)

const (
	carolToken  = "sufficiently-long-token"
	carolConfig = `{"list":{"g1":{"items":[]}}}`
)

func newTestService(t *testing.T) (*Service, domain.ProfileRepository, *metrics.Metrics) {
	t.Helper()
	repo := testutils.SQLiteRepo(t)

	m := metrics.New(nil)
	return NewService(repo, render.New(render.WithSeed(1)), WithMetrics(m)), repo, m
}

func TestClaim_CreateThenRead(t *testing.T) {
	svc, repo, m := newTestService(t)
	ctx := context.Background()

	result, err := svc.Claim(ctx, "carol", carolToken, []byte(carolConfig))
	require.NoError(t, err)
	assert.Equal(t, Created, result)

	rec, err := repo.Get(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, HashToken("carol", carolToken), rec.HashedToken)
	assert.NotContains(t, rec.HashedToken, carolToken)
	js, err := codec.DecodeConfig(rec.Config)
	require.NoError(t, err)
	assert.JSONEq(t, carolConfig, string(js))

	html, err := svc.Page(ctx, "carol")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>carol</h1>")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Claims.WithLabelValues(metrics.ResultCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Pages.WithLabelValues(metrics.ResultRendered)))
}

func TestClaim_SameTokenUpdates(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Claim(ctx, "carol", carolToken, []byte(carolConfig))
	require.NoError(t, err)

	result, err := svc.Claim(ctx, "carol", carolToken, []byte(`{"name":"Carol C.","list":{"g2":{"items":[]}}}`))
	require.NoError(t, err)
	assert.Equal(t, Updated, result)

	html, err := svc.Page(ctx, "carol")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Carol C.</h1>")
	assert.Contains(t, html, `id="g2"`)

	rec, err := repo.Get(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, HashToken("carol", carolToken), rec.HashedToken)
}

func TestClaim_OtherTokenConflicts(t *testing.T) {
	svc, repo, m := newTestService(t)
	ctx := context.Background()

	_, err := svc.Claim(ctx, "carol", carolToken, []byte(carolConfig))
	require.NoError(t, err)

	_, err = svc.Claim(ctx, "carol", "another-long-token", []byte(`{"list":{"x":{"items":[]}}}`))
	assert.ErrorIs(t, err, domain.ErrConflict)

	rec, err := repo.Get(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, HashToken("carol", carolToken), rec.HashedToken)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Claims.WithLabelValues(metrics.ResultConflict)))
}

func TestClaim_Validation(t *testing.T) {
	tests := []struct {
		name, profile, token, config string
		field                        string
	}{
		{"uppercase start", "Ab", carolToken, carolConfig, "name"},
		{"too short", "a", carolToken, carolConfig, "name"},
		{"two chars", "ab", carolToken, carolConfig, "name"},
		{"leading underscore", "_no", carolToken, carolConfig, "name"},
		{"short token", "carol", "short", carolConfig, "token"},
		{"token with space", "carol", "invalid token", carolConfig, "token"},
		{"not json", "carol", carolToken, "list: {}", "config"},
		{"no list", "carol", carolToken, `{}`, "config"},
		{"empty list", "carol", carolToken, `{"list":{}}`, "config"},
		{"bad icon", "carol", carolToken, `{"list":{"g1":{"icon":"nope/x","items":[]}}}`, "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)

			_, err := svc.Claim(context.Background(), tt.profile, tt.token, []byte(tt.config))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			_, err = repo.Get(context.Background(), tt.profile)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestClaim_JSONEscapesAndRepeatedKeys(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	config := `{"name":"first","name":"Carol","list":{"g1":{"items":[{"text":"a\/b","link":"https:\/\/x.y"}]}}}`
	_, err := svc.Claim(ctx, "carol", carolToken, []byte(config))
	require.NoError(t, err)

	html, err := svc.Page(ctx, "carol")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Carol</h1>")
	assert.Contains(t, html, `<a href="https://x.y">`)
	assert.Contains(t, html, "<div>a/b ")
}

func TestClaim_NameBoundary(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Claim(context.Background(), "a12", carolToken, []byte(carolConfig))
	assert.NoError(t, err)
}

func TestRemove_Ownership(t *testing.T) {
	svc, _, m := newTestService(t)
	ctx := context.Background()
	const t1, t2 = "token-number-one", "token-number-two"

	_, err := svc.Claim(ctx, "carol", t1, []byte(carolConfig))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, "carol", t2), domain.ErrUnauthorized)
	_, err = svc.Page(ctx, "carol")
	require.NoError(t, err, "record must survive a rejected delete")

	require.NoError(t, svc.Remove(ctx, "carol", t1))
	_, err = svc.Page(ctx, "carol")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Remove(ctx, "carol", t1), domain.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Removals.WithLabelValues(metrics.ResultUnauthorized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Removals.WithLabelValues(metrics.ResultDeleted)))
}

func TestPage_Undecodable(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &domain.ProfileRecord{Name: "broken", HashedToken: "x", Config: "not-base64!"}))
	_, err := svc.Page(ctx, "broken")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Put(ctx, &domain.ProfileRecord{Name: "empty", HashedToken: "x", Config: ""}))
	_, err = svc.Page(ctx, "empty")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPage_LegacyPlainJSON(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &domain.ProfileRecord{Name: "legacy", HashedToken: "x", Config: `{"list":{"g1":{"items":[{"text":"old"}]}}}`}))
	html, err := svc.Page(ctx, "legacy")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>legacy</h1>")
	assert.Contains(t, html, "<div>old</div>")
}

func TestPage_RenderFailureIsNotNotFound(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, &domain.ProfileRecord{Name: "icons", HashedToken: "x", Config: codec.Encode(`{"list":{"g1":{"icon":"bad/icon","items":[]}}}`)}))
	_, err := svc.Page(ctx, "icons")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	var iconErr *render.IconError
	assert.ErrorAs(t, err, &iconErr)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Get(ctx context.Context, name string) (*domain.ProfileRecord, error) {
	args := m.Called(ctx, name)
	rec, _ := args.Get(0).(*domain.ProfileRecord)
	return rec, args.Error(1)
}

func (m *mockRepository) Put(ctx context.Context, rec *domain.ProfileRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockRepository) Close() error {
	return m.Called().Error(0)
}

func TestService_StoreFailuresSurface(t *testing.T) {
	ctx := context.Background()
	storeErr := database.NewStoreError(errors.New("connection refused"), "redis", "get")

	t.Run("claim get fails", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Get", mock.Anything, "carol").Return(nil, storeErr).Once()
		svc := NewService(repo, render.New())

		_, err := svc.Claim(ctx, "carol", carolToken, []byte(carolConfig))
		var se *database.StoreError
		assert.ErrorAs(t, err, &se)
		repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("claim put fails once and is not retried", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Get", mock.Anything, "carol").Return(nil, domain.ErrNotFound).Once()
		repo.On("Put", mock.Anything, mock.MatchedBy(func(rec *domain.ProfileRecord) bool {
			return rec.Name == "carol" && rec.HashedToken == HashToken("carol", carolToken)
		})).Return(storeErr).Once()
		svc := NewService(repo, render.New())

		_, err := svc.Claim(ctx, "carol", carolToken, []byte(carolConfig))
		assert.ErrorIs(t, err, storeErr)
		repo.AssertNumberOfCalls(t, "Put", 1)
	})

	t.Run("remove delete fails", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Get", mock.Anything, "carol").Return(&domain.ProfileRecord{Name: "carol", HashedToken: HashToken("carol", carolToken)}, nil)
		repo.On("Delete", mock.Anything, "carol").Return(storeErr).Once()
		svc := NewService(repo, render.New())

		assert.ErrorIs(t, svc.Remove(ctx, "carol", carolToken), storeErr)
	})

	t.Run("page get fails", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Get", mock.Anything, "carol").Return(nil, storeErr)
		svc := NewService(repo, render.New())

		_, err := svc.Page(ctx, "carol")
		assert.ErrorIs(t, err, storeErr)
		assert.False(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, render.New())

		_, err := svc.Claim(ctx, "Ab", carolToken, []byte(carolConfig))
		assert.Error(t, err)
		assert.Error(t, svc.Remove(ctx, "carol", "short"))
		repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestHashToken(t *testing.T) {
	h := HashToken("carol", carolToken)
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashToken("carol", carolToken))
	assert.NotEqual(t, h, HashToken("carol", "sufficiently-long-tokeN"))
	assert.True(t, hashesEqual(h, HashToken("carol", carolToken)))
	assert.False(t, hashesEqual(h, h[:63]))
}

func TestValidateNameAndToken(t *testing.T) {
	assert.True(t, ValidateName("this-is-valid_123"))
	assert.True(t, ValidateName("a12"))
	for _, bad := range []string{"invalid name", "", "o", "_no", "名前", "Ab", "a"} {
		assert.False(t, ValidateName(bad), bad)
	}

	assert.True(t, ValidateToken("this-is-valid_123"))
	for _, bad := range []string{"invalid token", "", "short", "秘密"} {
		assert.False(t, ValidateToken(bad), bad)
	}
}
