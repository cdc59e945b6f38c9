package rabbitmq

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// closedPort возвращает локальный порт, на котором никто не слушает
func closedPort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return strconv.Itoa(port)
}
