package fixture

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDFunction(t *testing.T) {
	r := NewRegistry()

	got, err := r.Call("uuid()")

	require.NoError(t, err)
	_, err = uuid.Parse(got)
	assert.NoError(t, err, "uuid() should produce a parseable UUID, got %q", got)
}

func TestTimestampFunctions(t *testing.T) {
	r := NewRegistry()

	got, err := r.Call("timestamp()")
	require.NoError(t, err)
	secs, err := strconv.ParseInt(got, 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Unix(), secs, 5)

	got, err = r.Call("timestampMs()")
	require.NoError(t, err)
	_, err = strconv.ParseInt(got, 10, 64)
	assert.NoError(t, err)
}

func TestDateFunction(t *testing.T) {
	r := NewRegistry()

	got, err := r.Call("date()")
	require.NoError(t, err)
	_, err = time.Parse("2006-01-02", got)
	assert.NoError(t, err)

	got, err = r.Call("date('02 Jan 2006')")
	require.NoError(t, err)
	_, err = time.Parse("02 Jan 2006", got)
	assert.NoError(t, err)

	yesterday, err := r.Call("date('2006-01-02', -1)")
	require.NoError(t, err)
	assert.NotEqual(t, "", yesterday)

	_, err = r.Call("date('2006-01-02', soon)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")
}

func TestRandomIntFunction(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 20; i++ {
		got, err := r.Call("randomInt(5, 10)")
		require.NoError(t, err)
		n, err := strconv.Atoi(got)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 10)
	}

	_, err := r.Call("randomInt(10, 5)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestRandomStringFunctions(t *testing.T) {
	r := NewRegistry()

	got, err := r.Call("randomString(24)")
	require.NoError(t, err)
	assert.Len(t, got, 24)

	got, err = r.Call("randomAlphanumeric()")
	require.NoError(t, err)
	assert.Len(t, got, 8)

	_, err = r.Call("randomString(nope)")
	require.Error(t, err)

	_, err = r.Call("randomString(-1)")
	require.Error(t, err)
}

func TestRandomEmailFunction(t *testing.T) {
	r := NewRegistry()

	got, err := r.Call("randomEmail()")

	require.NoError(t, err)
	assert.Contains(t, got, "@")
	assert.True(t, strings.HasSuffix(got, ".com"))
}

func TestCallBareNameIsZeroArgCall(t *testing.T) {
	r := NewRegistry()

	got, err := r.Call("uuid")

	require.NoError(t, err)
	_, err = uuid.Parse(got)
	assert.NoError(t, err)
}

func TestCallUnknownFunction(t *testing.T) {
	r := NewRegistry()

	_, err := r.Call("teleport()")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown function "teleport"`)
}

func TestRegisterCustomFunction(t *testing.T) {
	r := NewRegistry()
	r.Register("answer", func(args []string) (string, error) {
		return "42", nil
	})

	require.True(t, r.Has("answer"))
	got, err := r.Call("answer()")
	require.NoError(t, err)
	assert.Equal(t, "42", got)
}

func TestRegisterMisusePanics(t *testing.T) {
	r := NewRegistry()

	require.Panics(t, func() { r.Register("", fnUUID) })
	require.Panics(t, func() { r.Register("x", nil) })
}

func TestResolveReplacesPlaceholders(t *testing.T) {
	r := NewRegistry()
	r.Register("answer", func([]string) (string, error) { return "42", nil })

	got, err := r.Resolve("the answer is {{answer()}} of {{answer()}}")

	require.NoError(t, err)
	assert.Equal(t, "the answer is 42 of 42", got)
}

func TestResolveLeavesPlainTextAlone(t *testing.T) {
	r := NewRegistry()

	got, err := r.Resolve("SHIPPED")

	require.NoError(t, err)
	assert.Equal(t, "SHIPPED", got)
}

func TestResolveUnknownFunctionFails(t *testing.T) {
	r := NewRegistry()

	_, err := r.Resolve("id: {{teleport()}}")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestParseArgsHonorsQuotes(t *testing.T) {
	got := parseArgs(`'a, b', "c", d`)

	assert.Equal(t, []string{"a, b", "c", "d"}, got)
}

func TestDefaultRegistryHelpers(t *testing.T) {
	got, err := Resolve("{{uuid()}}")

	require.NoError(t, err)
	_, err = uuid.Parse(got)
	assert.NoError(t, err)
}
