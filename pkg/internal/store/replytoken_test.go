package store

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyTokenRoundTrip(t *testing.T) {
	viper.Set("security.reply_token_secret", "test-secret")

	token, err := CreateReplyToken("m-42", "me")
	require.NoError(t, err)

	claims, err := ParseReplyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "m-42", claims.MessageID)
	assert.Equal(t, "me", claims.UserID)
}

func TestReplyTokenRejectsForeignSignature(t *testing.T) {
	viper.Set("security.reply_token_secret", "test-secret")
	token, err := CreateReplyToken("m-42", "me")
	require.NoError(t, err)

	viper.Set("security.reply_token_secret", "another-secret")
	_, err = ParseReplyToken(token)
	assert.Error(t, err)
}
