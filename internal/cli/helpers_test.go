package cli

import (
	"io"
	"testing"

	"github.com/midsquest/midsquest/internal/common/httpclient"
	"github.com/midsquest/midsquest/internal/gameclient"
	"github.com/midsquest/midsquest/internal/sandbox"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newSandbox(t *testing.T) *sandbox.Server {
	t.Helper()
	s, err := sandbox.CreateNewServer(sandbox.Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	s.MountHandlers()
	return s
}

// newSandboxClient returns a client wired to an in-process sandbox that
// writes response bodies to out.
func newSandboxClient(t *testing.T, out io.Writer) (*gameclient.Client, *httpclient.TestHTTPClient) {
	t.Helper()
	doer := httpclient.NewTestClient(newSandbox(t))
	c := newGameClient(NewDefaultConfig(), out, gameclient.WithDoer(doer), gameclient.WithLogger(zerolog.Nop()))
	return c, doer
}
