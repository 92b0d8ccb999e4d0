package custom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDatetime_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		d    Datetime
		want string
	}{
		{
			name: "Zero",
			d:    Datetime{},
			want: `null`,
		},
		{
			name: "UTC",
			d:    Datetime(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)),
			want: `"2024-03-01T12:30:00Z"`,
		},
		{
			name: "Offset",
			d:    Datetime(time.Date(2024, 3, 1, 13, 30, 0, 0, time.FixedZone("CET", 3600))),
			want: `"2024-03-01T12:30:00Z"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.d)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(got))
		})
	}
}

func TestDatetime_UnmarshalJSON(t *testing.T) {
	var d Datetime
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T12:30:00Z"`), &d))
	require.True(t, time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC).Equal(d.Time()))

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	require.True(t, d.IsZero())

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}
