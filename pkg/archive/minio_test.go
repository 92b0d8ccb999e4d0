package archive

import (
	"testing"

	"github.com/Jacobbrewer1/ticketbot/pkg/entities"
	"github.com/Jacobbrewer1/ticketbot/pkg/logging"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(&entities.Ticket{ID: "7", GuildID: "1234", ChannelID: "5678"})
	require.Equal(t, "transcripts/1234/7-5678.txt", key)
}

func TestNewMinioArchive(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	_, err = NewMinioArchive(l, Config{Bucket: "transcripts"})
	require.ErrorIs(t, err, ErrNoEndpoint)

	_, err = NewMinioArchive(l, Config{Endpoint: "localhost:9000"})
	require.Error(t, err)

	a, err := NewMinioArchive(l, Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "transcripts",
	})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000/transcripts/transcripts/1/2-3.txt",
		a.objectURL(ObjectKey(&entities.Ticket{ID: "2", GuildID: "1", ChannelID: "3"})))
}
