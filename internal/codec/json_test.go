package codec

import (
	"testing"

	"github.com/go-kratos/kratos/v2/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistered(t *testing.T) {
	c := encoding.GetCodec(Name)
	require.NotNil(t, c)
	assert.Equal(t, Name, c.Name())
}

func TestMarshalKeepsURLs(t *testing.T) {
	out, err := jsonCodec{}.Marshal(map[string]string{"url": "https://example.com/a?b=1&c=<2>"})
	require.NoError(t, err)
	assert.Equal(t, `{"url":"https://example.com/a?b=1&c=<2>"}`, string(out))

	var back map[string]string
	require.NoError(t, jsonCodec{}.Unmarshal(out, &back))
	assert.Equal(t, "https://example.com/a?b=1&c=<2>", back["url"])
}
