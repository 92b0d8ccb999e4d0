package main

import (
	"testing"
	"time"

	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T)
	}{
		{
			name:    "Missing token",
			env:     map[string]string{EnvApplicationId: "app"},
			wantErr: true,
		},
		{
			name: "Defaults",
			env:  map[string]string{EnvBotToken: "token", EnvApplicationId: "app"},
			check: func(t *testing.T) {
				require.Equal(t, "token", BotToken)
				require.Equal(t, defaultDataDir, DataDir)
				require.Equal(t, defaultMonitoringPort, MonitoringPort)
				require.Equal(t, defaultMinioBucket, MinioBucket)
				require.Empty(t, MongoUri)
				require.False(t, MinioUseSSL)
				require.Zero(t, DeleteDelay)
			},
		},
		{
			name: "Overrides",
			env: map[string]string{
				EnvBotToken:       "token",
				EnvApplicationId:  "app",
				EnvMongoUri:       "mongodb://localhost:27017",
				EnvMonitoringPort: "9090",
				EnvDeleteDelay:    "30s",
				EnvMinioEndpoint:  "localhost:9000",
				EnvMinioUseSSL:    "true",
			},
			check: func(t *testing.T) {
				require.Equal(t, "mongodb://localhost:27017", MongoUri)
				require.Equal(t, "9090", MonitoringPort)
				require.Equal(t, 30*time.Second, DeleteDelay)
				require.Equal(t, "localhost:9000", MinioEndpoint)
				require.True(t, MinioUseSSL)
			},
		},
		{
			name:    "Invalid delay",
			env:     map[string]string{EnvBotToken: "token", EnvApplicationId: "app", EnvDeleteDelay: "soon"},
			wantErr: true,
		},
		{
			name:    "Invalid ssl flag",
			env:     map[string]string{EnvBotToken: "token", EnvApplicationId: "app", EnvMinioUseSSL: "maybe"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				EnvBotToken, EnvApplicationId, EnvMongoUri, EnvDataDir, EnvMonitoringPort, EnvDeleteDelay,
				EnvMinioEndpoint, EnvMinioAccessKey, EnvMinioSecretKey, EnvMinioBucket, EnvMinioUseSSL,
			} {
				t.Setenv(key, tt.env[key])
			}

			err := parseConfig(l)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t)
		})
	}
}
