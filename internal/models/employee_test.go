package models_test

import (
	"testing"

	"github.com/navikon/atlasbot/internal/models"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestFullName(t *testing.T) {
	t.Parallel()

	emp := models.Employee{FirstName: "Михаил", LastName: "Зорин"}
	assert.Equal(t, "Михаил Зорин", emp.FullName())
}

func TestHasBirthday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		day   *int
		month *int
		want  bool
	}{
		{"both set", intPtr(7), intPtr(3), true},
		{"day only", intPtr(7), nil, false},
		{"month only", nil, intPtr(3), false},
		{"neither", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			emp := models.Employee{BirthdayDay: tt.day, BirthdayMonth: tt.month}
			assert.Equal(t, tt.want, emp.HasBirthday())
		})
	}
}
