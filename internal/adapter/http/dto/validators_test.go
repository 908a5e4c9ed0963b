package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStruct(t *testing.T) {
	reason := "  <b>closed</b>  "
	req := &PayoutCallbackRequest{
		Reference: "  seller-1:wd:key-001 ",
		Status:    "FAILED",
		Reason:    reason,
	}

	SanitizeStruct(req)

	assert.Equal(t, "seller-1:wd:key-001", req.Reference)
	assert.Equal(t, "&lt;b&gt;closed&lt;/b&gt;", req.Reason)
}

func TestSanitizeStruct_NonStructIsNoop(t *testing.T) {
	s := "  untouched  "
	SanitizeStruct(s)
	SanitizeStruct(&s)
	assert.Equal(t, "  untouched  ", s)
}

func TestSafeIDPattern(t *testing.T) {
	assert.True(t, safeStringRe.MatchString("key-001"))
	assert.True(t, safeStringRe.MatchString("seller_1.retry"))
	assert.False(t, safeStringRe.MatchString("key 001"))
	assert.False(t, safeStringRe.MatchString("key;drop"))
	assert.False(t, safeStringRe.MatchString(""))
}
