package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteLink(t *testing.T) {
	link, err := GenerateInviteLink("buyurtma_bot", "ali_01")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/buyurtma_bot?start=ali_01", link)

	_, err = GenerateInviteLink("", "ali")
	assert.Error(t, err)
	_, err = GenerateInviteLink("buyurtma_bot", "ali valiyev")
	assert.Error(t, err)
}

func TestGenerateInviteQR(t *testing.T) {
	png, link, err := GenerateInviteQR("buyurtma_bot", "ali")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/buyurtma_bot?start=ali", link)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestStartPayload(t *testing.T) {
	login, ok := StartPayload("ali_01")
	assert.True(t, ok)
	assert.Equal(t, "ali_01", login)

	_, ok = StartPayload("")
	assert.False(t, ok)
	_, ok = StartPayload("bad payload")
	assert.False(t, ok)
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin("ali"))
	assert.Error(t, ValidateLogin("  "))
	assert.Error(t, ValidateLogin("/start"))
}

func TestNormalizeRole(t *testing.T) {
	role, ok := NormalizeRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, "admin", role)

	role, ok = NormalizeRole("SOTUVCHI")
	assert.True(t, ok)
	assert.Equal(t, "sotuvchi", role)

	_, ok = NormalizeRole("owner")
	assert.False(t, ok)
}

func TestParseChannelID(t *testing.T) {
	id, err := ParseChannelID(" 123456789 ")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), id)

	_, err = ParseChannelID("")
	assert.Error(t, err)
	_, err = ParseChannelID("abc")
	assert.Error(t, err)
}

func TestDisplayUsername(t *testing.T) {
	assert.Equal(t, "@ali", DisplayUsername("ali"))
	assert.Equal(t, "@ali", DisplayUsername("@ali"))
	assert.Empty(t, DisplayUsername(""))
	assert.NotEmpty(t, GenerateUUID())
}
