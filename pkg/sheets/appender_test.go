package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-agreement-api/pkg/config"
)

func TestSplitName(t *testing.T) {
	cases := []struct {
		in    string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane", "Jane", ""},
		{"", "", ""},
		{"Mary Jane Watson", "Mary", "Jane Watson"},
		{"  Jane   Doe  ", "Jane", "Doe"},
	}
	for _, tc := range cases {
		first, last := splitName(tc.in)
		assert.Equal(t, tc.first, first, tc.in)
		assert.Equal(t, tc.last, last, tc.in)
	}
}

func TestAppenderDisabledWithoutCredentials(t *testing.T) {
	appender, err := NewAppender(context.Background(), config.SheetsConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, appender.Enabled())

	assert.NoError(t, appender.Append(context.Background(), map[string]string{"fullName": "Jane Doe"}))
}
