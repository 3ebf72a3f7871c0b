package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/auth"
)

func TestGenerateRandomUser(t *testing.T) {
	user, profile, err := GenerateRandomUser("crew123456", "crew.example.com")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^E\d{5}$`), user.ID)
	assert.Regexp(t, regexp.MustCompile(`@crew\.example\.com$`), user.Email)
	assert.True(t, user.IsActive)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "crew123456"))

	assert.Equal(t, user.ID, profile.PNo)
	assert.Equal(t, user.Email, *profile.Email)
	assert.NotEmpty(t, *profile.Name)
	assert.Len(t, *profile.Base, 3)
}

func TestGenerateRandomRoute(t *testing.T) {
	start := time.Date(2024, 3, 1, 13, 0, 0, 0, time.UTC)

	route, schedules, details := GenerateRandomRoute(start, 4)

	require.Len(t, schedules, 4)
	require.Len(t, details, 4)
	for i, d := range details {
		assert.Equal(t, route.RouteNo, d.RouteNo)
		assert.Equal(t, schedules[i].FlightNo, d.FlightNo)
		assert.Equal(t, schedules[i].DepPort, d.DepStation)
		assert.NotEqual(t, schedules[i].DepPort, schedules[i].ArrPort)
		assert.Equal(t, start.AddDate(0, 0, i).Format(time.DateOnly), d.DepDate.Format(time.DateOnly))
		if i > 0 {
			// 航段首尾相接
			assert.Equal(t, schedules[i-1].ArrPort, schedules[i].DepPort)
		}
	}
}
