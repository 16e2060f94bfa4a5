package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	t.Run("empty source", func(t *testing.T) {
		_, err := Compile("")
		assert.ErrorIs(t, err, ErrEmpty)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := Compile("1 +")
		assert.Error(t, err)
	})

	t.Run("cached by source", func(t *testing.T) {
		a, err := Compile("1 + 2")
		require.NoError(t, err)
		b, err := Compile("1 + 2")
		require.NoError(t, err)
		assert.Same(t, a, b)
		assert.Equal(t, "1 + 2", a.Source())
	})
}

func TestProgramRun(t *testing.T) {
	p := MustCompile(`params.id + "-" + query.tab`)
	out, err := p.Run(map[string]any{
		"params": map[string]any{"id": "42"},
		"query":  map[string]any{"tab": "posts"},
	})
	require.NoError(t, err)
	assert.Equal(t, "42-posts", out)
}

func TestProgramRunBool(t *testing.T) {
	p := MustCompile(`len(actual) > 3`)

	ok, err := p.RunBool(map[string]any{"actual": "abcd"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.RunBool(map[string]any{"actual": "ab"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = MustCompile(`"yes"`).RunBool(map[string]any{})
	assert.Error(t, err)
}

func TestFake(t *testing.T) {
	assert.NotEmpty(t, Fake("email"))
	assert.NotEmpty(t, Fake("UUID"))
	assert.Empty(t, Fake("nope"))

	out, err := MustCompile(`fake("word") != ""`).RunBool(Env(nil))
	require.NoError(t, err)
	assert.True(t, out)
}

func TestEnvOverrides(t *testing.T) {
	env := Env(map[string]any{"fake": "shadowed"})
	assert.Equal(t, "shadowed", env["fake"])
}
