package remote_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"irremote/internal/remote"
)

func TestDefaultTable(t *testing.T) {
	table := remote.DefaultTable()

	t.Run("holds the seven samsung codes", func(t *testing.T) {
		assert.Equal(t, 7, table.Len())
		for _, c := range table.Codes() {
			assert.Equal(t, remote.SamsungAddress, c.Address, "token %c", c.Token)
		}
	})

	t.Run("lookup is an exact byte match", func(t *testing.T) {
		code, ok := table.Lookup('P')
		require.True(t, ok)
		assert.Equal(t, "POWER", code.Label)
		assert.Equal(t, uint16(0x40BF), code.Command)

		_, ok = table.Lookup('p')
		assert.False(t, ok)
	})

	t.Run("token constants match the wire bytes", func(t *testing.T) {
		want := map[byte]string{
			remote.TokenPower:      "POWER",
			remote.TokenMute:       "MUTE",
			remote.TokenVolumeUp:   "VOL UP",
			remote.TokenVolumeDown: "VOL DOWN",
			remote.TokenChNext:     "CH NEXT",
			remote.TokenChPrev:     "CH PREV",
			remote.TokenInput:      "SOURCE",
		}
		assert.Equal(t, byte('S'), remote.TokenInput)
		for token, label := range want {
			code, ok := table.Lookup(token)
			require.True(t, ok, "token %c", token)
			assert.Equal(t, label, code.Label)
		}
	})

	t.Run("codes are ordered by token", func(t *testing.T) {
		var tokens []byte
		for _, c := range table.Codes() {
			tokens = append(tokens, c.Token)
		}
		assert.Equal(t, []byte("DLMNPSU"), tokens)
	})
}

func TestNewTable(t *testing.T) {
	t.Run("rejects duplicate tokens", func(t *testing.T) {
		_, err := remote.NewTable(
			remote.Code{Token: 'P', Label: "POWER"},
			remote.Code{Token: 'P', Label: "OTHER"},
		)
		assert.ErrorIs(t, err, remote.ErrDuplicateToken)
	})

	t.Run("rejects codes without labels", func(t *testing.T) {
		_, err := remote.NewTable(remote.Code{Token: 'Z'})
		assert.Error(t, err)
	})

	t.Run("custom codes are looked up", func(t *testing.T) {
		table, err := remote.NewTable(remote.Code{Token: '1', Address: 0x0707, Command: 0x04, Label: "ONE"})
		require.NoError(t, err)

		code, ok := table.Lookup('1')
		require.True(t, ok)
		assert.Equal(t, uint16(0x0707), code.Address)
	})
}

func TestCode_String(t *testing.T) {
	code := remote.Code{Token: 'U', Address: 0xE0E0, Command: 0xE01F, Label: "VOL UP"}
	assert.Equal(t, "U  VOL UP    0xE0E0  0xE01F", code.String())
}
