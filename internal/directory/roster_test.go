package directory_test

import (
	"testing"

	"github.com/navikon/atlasbot/internal/directory"
	"github.com/stretchr/testify/assert"
)

func TestPositionFromDepartment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		department string
		want       string
	}{
		{"role after company", "Навикон, Директор", "Директор"},
		{"multi-word role", "Навикон, Руководитель Тех. отдел", "Руководитель Тех. отдел"},
		{"no comma", "Навикон", ""},
		{"empty", "", ""},
		{"trailing comma", "Навикон,", ""},
		{"extra segments joined", "Навикон, Отдел продаж, Менеджер", "Отдел продаж, Менеджер"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, directory.PositionFromDepartment(tt.department))
		})
	}
}

func TestSplitLastName(t *testing.T) {
	t.Parallel()

	t.Run("plain surname", func(t *testing.T) {
		t.Parallel()
		surname, position := directory.SplitLastName("Петров")

		assert.Equal(t, "Петров", surname)
		assert.Empty(t, position)
	})

	t.Run("glued role", func(t *testing.T) {
		t.Parallel()
		surname, position := directory.SplitLastName("Баранов Менеджер")

		assert.Equal(t, "Баранов", surname)
		assert.Equal(t, "Менеджер", position)
	})
}

func TestDerivePosition(t *testing.T) {
	t.Parallel()

	t.Run("department role wins", func(t *testing.T) {
		t.Parallel()
		got := directory.DerivePosition("Навикон, Директор", "Беляев")

		assert.Equal(t, "Директор", got)
	})

	t.Run("glued surname role is the fallback", func(t *testing.T) {
		t.Parallel()
		got := directory.DerivePosition("Навикон", "Баранов Менеджер")

		assert.Equal(t, "Менеджер", got)
	})

	t.Run("nothing derivable", func(t *testing.T) {
		t.Parallel()
		got := directory.DerivePosition("Навикон", "Петров")

		assert.Empty(t, got)
	})
}
