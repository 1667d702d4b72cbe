package apperr_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/navikon/atlasbot/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Parallel()

	t.Run("wrapped cause is reachable through errors.Is", func(t *testing.T) {
		t.Parallel()
		err := apperr.Database(assert.AnError)

		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, apperr.KindDatabase, err.Kind)
		assert.Contains(t, err.Error(), "database")
	})

	t.Run("typed error survives further wrapping", func(t *testing.T) {
		t.Parallel()
		wrapped := fmt.Errorf("handler failed: %w", apperr.RateLimited(5*time.Second))

		var appErr *apperr.Error
		require.ErrorAs(t, wrapped, &appErr)
		assert.Equal(t, apperr.KindRateLimit, appErr.Kind)
		assert.Equal(t, 5*time.Second, appErr.RetryAfter)
	})

	t.Run("kind codes are stable", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "validation", apperr.KindValidation.String())
		assert.Equal(t, "authorization", apperr.KindAuthorization.String())
		assert.Equal(t, "rate_limit", apperr.KindRateLimit.String())
		assert.Equal(t, "database", apperr.KindDatabase.String())
		assert.Equal(t, "external_api", apperr.KindExternalAPI.String())
		assert.Equal(t, "unknown", apperr.KindUnknown.String())
	})
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation lists every problem",
			err:  apperr.Validation([]string{"Некорректный формат email", "Некорректный формат телефона"}),
			want: "Ошибка валидации: Некорректный формат email; Некорректный формат телефона",
		},
		{
			name: "authorization",
			err:  apperr.Authorization(),
			want: "❌ У вас нет прав для выполнения этой операции.",
		},
		{
			name: "rate limit reports whole seconds",
			err:  apperr.RateLimited(18 * time.Second),
			want: "⚠️ Слишком много запросов. Попробуйте через 18 секунд.",
		},
		{
			name: "rate limit never reports less than one second",
			err:  apperr.RateLimited(300 * time.Millisecond),
			want: "⚠️ Слишком много запросов. Попробуйте через 1 секунд.",
		},
		{
			name: "database",
			err:  apperr.Database(assert.AnError),
			want: "❌ Ошибка базы данных. Попробуйте позже.",
		},
		{
			name: "external service is named",
			err:  apperr.ExternalAPI("OpenAI", assert.AnError),
			want: "❌ Ошибка сервиса OpenAI. Попробуйте позже.",
		},
		{
			name: "untyped error gets the generic apology",
			err:  errors.New("boom"),
			want: "❌ Произошла ошибка. Попробуйте позже.",
		},
		{
			name: "typed error found through a wrap chain",
			err:  fmt.Errorf("outer: %w", apperr.Database(assert.AnError)),
			want: "❌ Ошибка базы данных. Попробуйте позже.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, apperr.UserMessage(tt.err))
		})
	}
}
