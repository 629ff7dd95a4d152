package command

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"mediation-api/core/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestMigrateAndBootstrapOnSQLite(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))

	_, err := run(t, "migrate")
	require.NoError(t, err)

	caseID, userID := uuid.NewString(), uuid.NewString()
	out, err := run(t, "bootstrap", "--case", caseID, "--user", userID)
	require.NoError(t, err)
	assert.Contains(t, out, userID+" is now an active mediator")

	_, err = run(t, "bootstrap", "--case", caseID, "--user", uuid.NewString())
	assert.ErrorContains(t, err, "already has an active mediator")
}

func TestBootstrapRejectsBadIDs(t *testing.T) {
	_, err := run(t, "bootstrap", "--case", "nope", "--user", uuid.NewString())
	assert.ErrorContains(t, err, "--case")
}

func TestTokenCommandSignsVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DATABASE_DRIVER", "memory")
	userID := uuid.New()

	out, err := run(t, "token", "--user", userID.String(), "--ttl", "5m")
	require.NoError(t, err)

	claims, err := utils.ValidateAndParseToken("test-secret", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}
