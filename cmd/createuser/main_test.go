package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/prompt"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegisterer struct {
	got services.RegisterInput
	err error
}

func (f *fakeRegisterer) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u1", Username: in.Username}, nil
}

func plainPassword(in *bufio.Reader, p string, out io.Writer) ([]byte, error) {
	s, err := prompt.Text(in, p, out)
	return []byte(s), err
}

func TestRun(t *testing.T) {
	users := &fakeRegisterer{}
	var out bytes.Buffer

	in := bufio.NewReader(strings.NewReader("alice\na@example.com\n\nsecret\n"))
	require.NoError(t, run(context.Background(), in, &out, users, plainPassword))

	assert.Equal(t, "alice", users.got.Username)
	assert.Equal(t, "a@example.com", users.got.Email)
	assert.Nil(t, users.got.FullName)
	assert.Equal(t, "secret", users.got.Password)
	assert.Contains(t, out.String(), "Created user alice (id=u1)")
}

func TestRun_EmptyPassword(t *testing.T) {
	users := &fakeRegisterer{}
	in := bufio.NewReader(strings.NewReader("alice\na@example.com\nAlice\n\n"))

	err := run(context.Background(), in, &bytes.Buffer{}, users, plainPassword)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, users.got.Username)
}

func TestRun_Conflict(t *testing.T) {
	users := &fakeRegisterer{err: common.Conflict("Username already taken")}
	in := bufio.NewReader(strings.NewReader("alice\na@example.com\n\nsecret\n"))

	err := run(context.Background(), in, &bytes.Buffer{}, users, plainPassword)
	assert.Equal(t, "Username already taken", describe(err))
}

func TestRun_InputClosed(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("alice\n"))

	err := run(context.Background(), in, &bytes.Buffer{}, &fakeRegisterer{}, plainPassword)
	assert.Equal(t, "EOF", describe(err))
}
